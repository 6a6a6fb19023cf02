package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := NewAuthService(nil, "secret", time.Hour)

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{name: "blank name", input: RegisterInput{Name: " ", Email: "a@b.com", Password: "longenough"}},
		{name: "blank email", input: RegisterInput{Name: "A", Email: "", Password: "longenough"}},
		{name: "blank password", input: RegisterInput{Name: "A", Email: "a@b.com", Password: "   "}},
		{name: "short password", input: RegisterInput{Name: "A", Email: "a@b.com", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLoginRejectsBlankFields(t *testing.T) {
	svc := NewAuthService(nil, "secret", time.Hour)

	_, err := svc.Login(LoginInput{Email: "", Password: "something"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Login(LoginInput{Email: "a@b.com", Password: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChangePasswordRejectsShortNewPassword(t *testing.T) {
	svc := NewAuthService(nil, "secret", time.Hour)

	err := svc.ChangePassword(1, "oldpassword", "short")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
