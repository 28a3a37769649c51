package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Valid(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Register("Ann", "a@x.com", "secret1"))
}

func TestRegister_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		userName  string
		email     string
		password  string
		wantField string
		wantMsg   string
	}{
		{"empty name", "", "a@x.com", "secret1", "name", "Name is required"},
		{"bad email", "Ann", "not-an-email", "secret1", "email", "Invalid email"},
		{"empty email", "Ann", "", "secret1", "email", "Invalid email"},
		{"short password", "Ann", "a@x.com", "12345", "password", "Password must be at least 6 characters"},
		{"email with display name", "Ann", "Ann <a@x.com>", "secret1", "email", "Invalid email"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vs := Register(tt.userName, tt.email, tt.password)
			require.NotEmpty(t, vs)
			assert.Equal(t, tt.wantField, vs[0].Field)
			assert.Equal(t, tt.wantMsg, vs[0].Message)
		})
	}
}

func TestRegister_FirstViolationWins(t *testing.T) {
	t.Parallel()

	// Everything is wrong; the name rule is reported first.
	vs := Register("", "nope", "123")
	require.Len(t, vs, 3)
	assert.Equal(t, "Name is required", vs[0].Message)
	assert.Equal(t, "Invalid email", vs[1].Message)
	assert.Equal(t, "Password must be at least 6 characters", vs[2].Message)
}

func TestLogin_Violations(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Login("a@x.com", "x"))

	vs := Login("bad", "x")
	require.Len(t, vs, 1)
	assert.Equal(t, "Invalid email", vs[0].Message)

	vs = Login("a@x.com", "")
	require.Len(t, vs, 1)
	assert.Equal(t, "Password is required", vs[0].Message)
}
