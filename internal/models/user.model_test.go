package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepartmentFromEmail(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		expected string
	}{
		{name: "department subdomain", email: "jane@cs.state.edu", expected: "cs"},
		{name: "uppercase subdomain", email: "emmy@MATH.university.edu", expected: "math"},
		{name: "deep subdomain uses first label", email: "a@history.arts.state.edu", expected: "history"},
		{name: "plain domain has no department", email: "jane@example.com", expected: ""},
		{name: "missing at sign", email: "janeexample.com", expected: ""},
		{name: "trailing at sign", email: "jane@", expected: ""},
		{name: "empty", email: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DepartmentFromEmail(tt.email))
		})
	}
}

func TestUser_BeforeCreate(t *testing.T) {
	t.Run("derives display name and department", func(t *testing.T) {
		email := "ada@cs.university.edu"
		user := &User{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     &email,
		}

		err := user.BeforeCreate(nil)

		assert.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", user.DisplayName)
		assert.Equal(t, "cs", user.Department)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		email := "ada@cs.university.edu"
		user := &User{
			FirstName:   "Ada",
			LastName:    "Lovelace",
			DisplayName: "Countess",
			Email:       &email,
			Department:  "math",
		}

		err := user.BeforeCreate(nil)

		assert.NoError(t, err)
		assert.Equal(t, "Countess", user.DisplayName)
		assert.Equal(t, "math", user.Department)
	})

	t.Run("handles nil email", func(t *testing.T) {
		user := &User{FirstName: "Ada"}

		err := user.BeforeCreate(nil)

		assert.NoError(t, err)
		assert.Equal(t, "Ada", user.DisplayName)
		assert.Empty(t, user.Department)
	})
}
