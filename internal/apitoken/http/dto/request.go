// Package dto provides data transfer objects for API token HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
)

// IssueAPITokenRequest contains the parameters for issuing an API token.
type IssueAPITokenRequest struct {
	Mode string `json:"mode"`
}

// Validate checks if the issue request is valid.
func (r *IssueAPITokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Mode,
			validation.Required,
			validation.In(string(apitokenDomain.ModeProduction), string(apitokenDomain.ModeTest)),
		),
	)
}

// RevokeAPITokenRequest contains the parameters for revoking an API token.
type RevokeAPITokenRequest struct {
	Mode string `json:"mode"`
}

// Validate checks if the revoke request is valid.
func (r *RevokeAPITokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Mode,
			validation.Required,
			validation.In(string(apitokenDomain.ModeProduction), string(apitokenDomain.ModeTest)),
		),
	)
}
