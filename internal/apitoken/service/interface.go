// Package service provides token generation for API credentials.
package service

// TokenService handles secure token generation and hashing.
type TokenService interface {
	// GenerateToken creates a new random token.
	// Returns the plain token and its hash for storage.
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain text token for lookup against stored hashes.
	HashToken(plainToken string) string
}
