package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_StructuredCodeWins(t *testing.T) {
	// The code is authoritative even when the message text points elsewhere.
	kind := Classify("INSUFFICIENT_CREDITS", "rate limit exceeded")
	assert.Equal(t, KindInsufficientCredits, kind)
}

func TestClassify_MessagePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Kind
	}{
		{"rate limit", "Rate limit exceeded, try again tomorrow", KindRateLimit},
		{"daily limit", "You reached your daily limit of analyses", KindDailyLimit},
		{"credits", "Insufficient credits for this session", KindInsufficientCredits},
		{"session", "Session expired, please start over", KindSessionInvalid},
		{"unknown", "Something went wrong", KindGeneric},
		// Overlapping wording: rate-limit wins because it is the most
		// restrictive terminal condition.
		{"rate over daily", "rate limit: daily limit reached", KindRateLimit},
		{"daily over credits", "daily limit reached, insufficient credits", KindDailyLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify("", tt.message))
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	assert.Equal(t, KindRateLimit, Classify("", "RATE LIMIT EXCEEDED"))
	assert.Equal(t, KindInsufficientCredits, Classify("", "INSUFFICIENT_CREDITS"))
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := &Error{Kind: KindNetwork, Message: "request failed", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "network_failure")
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindDailyLimit, Message: "daily limit"})
	assert.True(t, IsKind(err, KindDailyLimit))
	assert.False(t, IsKind(err, KindRateLimit))
	assert.False(t, IsKind(errors.New("plain"), KindDailyLimit))
}
