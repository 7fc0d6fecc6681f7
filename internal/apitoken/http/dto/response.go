package dto

import (
	"time"

	apitokenDomain "github.com/orderloop/orderloop/internal/apitoken/domain"
)

// IssueAPITokenResponse carries the plain token back to the caller.
// This is the only time the token is visible; only its hash is stored.
type IssueAPITokenResponse struct {
	Token string `json:"token"`
	Mode  string `json:"mode"`
}

// APITokenResponse describes an issued token without revealing it.
type APITokenResponse struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAPITokenResponse converts a domain token to its response form.
func NewAPITokenResponse(token *apitokenDomain.APIToken) APITokenResponse {
	return APITokenResponse{
		ID:        token.ID.String(),
		Mode:      string(token.Mode),
		CreatedAt: token.CreatedAt,
	}
}
