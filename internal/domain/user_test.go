package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserInput_ToUser(t *testing.T) {
	id := int64(42)

	tests := []struct {
		name     string
		input    *UserInput
		expected *User
	}{
		{
			name: "with id",
			input: &UserInput{
				ID:     &id,
				Name:   "Ada",
				Email:  "ada@example.com",
				Gender: "female",
				Status: "active",
			},
			expected: &User{ID: 42, Name: "Ada", Email: "ada@example.com", Gender: GenderFemale, Status: StatusActive},
		},
		{
			name: "without id",
			input: &UserInput{
				Name:   "Bob",
				Email:  "bob@example.com",
				Gender: "male",
				Status: "inactive",
			},
			expected: &User{Name: "Bob", Email: "bob@example.com", Gender: GenderMale, Status: StatusInactive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.ToUser())
		})
	}
}

func TestInputFromUser(t *testing.T) {
	u := &User{ID: 7, Name: "Cy", Email: "cy@example.com", Gender: GenderOther, Status: StatusActive}

	in := InputFromUser(u)

	require.NotNil(t, in.ID)
	assert.Equal(t, int64(7), *in.ID)
	assert.Equal(t, "other", in.Gender)
	assert.Equal(t, u, in.ToUser())

	// The input owns its id copy.
	u.ID = 8
	assert.Equal(t, int64(7), *in.ID)
}

func TestUserNotFound(t *testing.T) {
	err := UserNotFound(9)

	assert.True(t, IsNotFound(err))
	assert.EqualError(t, err, "User Not Found With ID:9")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Entity)
	assert.Equal(t, "9", nf.ID)
}
