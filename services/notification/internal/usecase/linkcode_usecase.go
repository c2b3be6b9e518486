package usecase

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"dorm-link/pkg/logger"
	"dorm-link/services/notification/internal/entity"
	"dorm-link/services/notification/internal/repo/persistent"
)

// ErrCodeInvalid covers every negative validation outcome: unknown code,
// already used, or expired. Callers get no hint which one it was.
var ErrCodeInvalid = errors.New("link code is invalid or expired")

type LinkCodeUseCase interface {
	Generate(userID string) (*entity.LinkCode, error)
	Validate(code string) (string, error)
}

type linkCodeUseCase struct {
	linkCodeRepo persistent.LinkCodeRepository
	ttl          time.Duration
	logger       *logger.Logger
}

func NewLinkCodeUseCase(linkCodeRepo persistent.LinkCodeRepository, ttl time.Duration, log *logger.Logger) LinkCodeUseCase {
	return &linkCodeUseCase{linkCodeRepo: linkCodeRepo, ttl: ttl, logger: log}
}

// Generate draws a uniform 6-digit code valid for the configured TTL.
// Collisions with other live codes are not checked: at one in a million per
// window they are cheaper to accept than to serialize generation over.
func (uc *linkCodeUseCase) Generate(userID string) (*entity.LinkCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return nil, fmt.Errorf("failed to draw link code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())
	expiresAt := time.Now().UTC().Add(uc.ttl)

	if err := uc.linkCodeRepo.Create(userID, code, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store link code: %w", err)
	}

	uc.logger.Info("Generated link code for user %s, expires at %s", userID, expiresAt.Format(time.RFC3339))
	return &entity.LinkCode{Code: code, ExpiresAt: expiresAt}, nil
}

// Validate consumes a code exactly once. The repository's conditional update
// guarantees that two concurrent calls with the same code succeed at most once.
func (uc *linkCodeUseCase) Validate(code string) (string, error) {
	userID, ok, err := uc.linkCodeRepo.Consume(code, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to consume link code: %w", err)
	}
	if !ok {
		return "", ErrCodeInvalid
	}
	return userID, nil
}
