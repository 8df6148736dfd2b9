package service

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type registerPayload struct {
	Name     string `validate:"omitempty,max=64"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

func validateRegisterInput(input RegisterInput) error {
	payload := registerPayload{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	}
	if err := validate.Struct(payload); err != nil {
		return ErrValidation.WithCause(err)
	}
	return nil
}

type passwordPayload struct {
	Password string `validate:"required,min=8,max=72"`
}

func validatePassword(password string) error {
	if err := validate.Struct(passwordPayload{Password: password}); err != nil {
		return ErrValidation.WithCause(err)
	}
	return nil
}
