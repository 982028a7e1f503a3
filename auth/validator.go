package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// LoginRequest is the credential pair presented to the login endpoint.
// The password floor matches the historical contract of the service; the
// real gate is the verifier, not this check.
type LoginRequest struct {
	Username string `validate:"required,min=1,max=32"`
	Password string `validate:"required,min=3,max=72"`
}

func ValidateLogin(req LoginRequest) error {
	return validate.Struct(req)
}
