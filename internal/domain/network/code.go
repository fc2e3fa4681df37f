package network

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const (
	joinCodeAlphabet        = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	defaultJoinCodeLength   = 6
	defaultJoinCodeAttempts = 10
)

type codeSource func(length int) (string, error)

// generateUniqueCode draws codes until claim stores one. Codes reported by
// IsCodeTaken and claims failing with ErrCodeTaken both use up an attempt.
func generateUniqueCode(ctx context.Context, repo Repository, source codeSource, length, attempts int, claim func(code string) error) (string, error) {
	for i := 0; i < attempts; i++ {
		code, err := source(length)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if taken {
			continue
		}

		err = claim(code)
		if errors.Is(err, ErrCodeTaken) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", ErrCodeSpaceExhausted
}

func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(joinCodeAlphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(joinCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

// NormalizeCode upper-cases and trims a user-typed join code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
