// Package domain contains core business entities and rules.
package domain

import "strconv"

// Gender is the enumerated gender of a user.
type Gender string

// Valid genders.
const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Status is the enumerated account status of a user.
type Status string

// Valid statuses.
const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is a persisted user record.
// This is a domain entity - it has no knowledge of external systems.
type User struct {
	// ID is the primary key. Zero means the store has not assigned one yet.
	ID int64

	Name   string
	Email  string
	Gender Gender
	Status Status
}

// UserNotFound is the error returned when no user exists with the given id.
func UserNotFound(id int64) error {
	idStr := strconv.FormatInt(id, 10)

	return NewNotFoundErrorWithReason("user", idStr, "User Not Found With ID:"+idStr)
}

// UserInput is a candidate user submitted for create or update.
// ID is nil when the caller did not supply one.
type UserInput struct {
	ID     *int64
	Name   string
	Email  string
	Gender string
	Status string
}

// ToUser converts a validated input into a User.
func (in *UserInput) ToUser() *User {
	u := &User{
		Name:   in.Name,
		Email:  in.Email,
		Gender: Gender(in.Gender),
		Status: Status(in.Status),
	}
	if in.ID != nil {
		u.ID = *in.ID
	}

	return u
}

// InputFromUser builds a candidate from an existing user, for example one
// fetched from a remote source that must pass the same validation rules.
func InputFromUser(u *User) *UserInput {
	id := u.ID

	return &UserInput{
		ID:     &id,
		Name:   u.Name,
		Email:  u.Email,
		Gender: string(u.Gender),
		Status: string(u.Status),
	}
}
