package dto

import "github.com/jsamuelsen/user-sync-service/internal/domain"

// UserRequest is the JSON body accepted by create and update. Field checks
// live in the app validator so every failing field is reported together.
type UserRequest struct {
	ID     *int64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Status string `json:"status"`
}

// ToInput converts the request into a candidate user.
func (r *UserRequest) ToInput() *domain.UserInput {
	return &domain.UserInput{
		ID:     r.ID,
		Name:   r.Name,
		Email:  r.Email,
		Gender: r.Gender,
		Status: r.Status,
	}
}

// UserResponse is the JSON representation of a stored user.
type UserResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Status string `json:"status"`
}

// NewUserResponse converts a domain user for output.
func NewUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Gender: string(u.Gender),
		Status: string(u.Status),
	}
}

// NewUserListResponse converts users for output. The result is never nil so
// an empty store encodes as [] rather than null.
func NewUserListResponse(users []*domain.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}

	return out
}
