package domain

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/orderloop/orderloop/internal/validation"
)

// CreateUserInput contains the parameters for provisioning a user.
type CreateUserInput struct {
	Name  string
	Email string
	Roles []string
}

// Validate checks if the input is valid.
func (i *CreateUserInput) Validate() error {
	return validation.ValidateStruct(i,
		validation.Field(&i.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&i.Email,
			validation.Required,
			customValidation.Email,
		),
		validation.Field(&i.Roles,
			validation.Required,
			validation.Length(1, 10),
			validation.Each(validation.Required, customValidation.NotBlank),
		),
	)
}
