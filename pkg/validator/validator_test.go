package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorPasses(t *testing.T) {
	v := New()
	v.Require("username", "greg", "Username is required")
	v.Email("email", "greg@example.com", "Valid email required")
	v.MinLength("password", "hunter22", 6, "Password must be at least 6 characters")

	assert.True(t, v.Valid())
	assert.Empty(t, v.Errors())
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := New()
	v.Require("username", "   ", "Username is required")
	v.Email("email", "not-an-email", "Valid email required")
	v.MinLength("password", "abc", 6, "Password must be at least 6 characters")

	assert.False(t, v.Valid())
	errs := v.Errors()
	assert.Len(t, errs, 3)
	assert.Equal(t, FieldError{Param: "username", Msg: "Username is required"}, errs[0])
	assert.Equal(t, "email", errs[1].Param)
	assert.Equal(t, "password", errs[2].Param)
}

func TestEmailShapes(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@sub.example.com"}
	invalid := []string{"", "plain", "no@tld", "@example.com"}

	for _, email := range valid {
		v := New()
		v.Email("email", email, "bad")
		assert.True(t, v.Valid(), email)
	}
	for _, email := range invalid {
		v := New()
		v.Email("email", email, "bad")
		assert.False(t, v.Valid(), email)
	}
}
