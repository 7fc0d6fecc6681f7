// Package usecase implements the order token broker and flow coordinator.
package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	apitokenService "github.com/orderloop/orderloop/internal/apitoken/service"
	"github.com/orderloop/orderloop/internal/config"
	apperrors "github.com/orderloop/orderloop/internal/errors"
	"github.com/orderloop/orderloop/internal/metrics"
	orderDomain "github.com/orderloop/orderloop/internal/order/domain"
)

// orderTokenBroker implements OrderTokenBroker.
type orderTokenBroker struct {
	config          *config.Config
	tokenRepo       OrderTokenRepository
	tokenService    apitokenService.TokenService
	businessMetrics metrics.BusinessMetrics
}

// observe records operation count and duration for one broker operation.
func (b *orderTokenBroker) observe(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	b.businessMetrics.RecordOperation(ctx, "order", operation, status)
	b.businessMetrics.RecordDuration(ctx, "order", operation, time.Since(start), status)
}

// IssueOrderToken serializes the validated payload into a new single-use token.
func (b *orderTokenBroker) IssueOrderToken(
	ctx context.Context,
	payload *orderDomain.OrderPayload,
) (plainToken string, err error) {
	start := time.Now()
	defer func() { b.observe(ctx, "order_token_issue", start, err) }()
	data, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to serialize order payload")
	}

	plainToken, tokenHash, err := b.tokenService.GenerateToken()
	if err != nil {
		return "", err
	}

	token := &orderDomain.OrderToken{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		Payload:   data,
		CreatedAt: time.Now().UTC(),
	}

	if err := b.tokenRepo.Create(ctx, token); err != nil {
		return "", err
	}

	return plainToken, nil
}

// RedeemOrderToken consumes the token exactly once and returns its payload.
//
// The consume is destructive: absence covers both "never issued" and
// "already redeemed", making double-spend structurally impossible rather
// than policy-checked. TTL is checked lazily against the consumed row's
// creation time; an expired token has already been destroyed by the consume,
// so expiry handling needs no separate delete.
func (b *orderTokenBroker) RedeemOrderToken(
	ctx context.Context,
	plainToken string,
) (payload *orderDomain.OrderPayload, err error) {
	start := time.Now()
	defer func() { b.observe(ctx, "order_token_redeem", start, err) }()

	tokenHash := b.tokenService.HashToken(plainToken)

	data, createdAt, err := b.tokenRepo.Consume(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().Sub(createdAt) > b.config.OrderTokenTTL {
		return nil, orderDomain.ErrOrderTokenExpired
	}

	var decoded orderDomain.OrderPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, apperrors.Wrap(err, "failed to deserialize order payload")
	}

	return &decoded, nil
}

// CleanExpiredTokens removes tokens past the TTL.
func (b *orderTokenBroker) CleanExpiredTokens(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-b.config.OrderTokenTTL)
	return b.tokenRepo.DeleteOlderThan(ctx, cutoff)
}

// NewOrderTokenBroker creates a new OrderTokenBroker with the provided dependencies.
func NewOrderTokenBroker(
	cfg *config.Config,
	tokenRepo OrderTokenRepository,
	tokenService apitokenService.TokenService,
	businessMetrics metrics.BusinessMetrics,
) OrderTokenBroker {
	return &orderTokenBroker{
		config:          cfg,
		tokenRepo:       tokenRepo,
		tokenService:    tokenService,
		businessMetrics: businessMetrics,
	}
}
