package api

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failed API call into the categories the CLI knows how to
// recover from.
type Kind string

const (
	// KindRateLimit means too many guest sessions from one origin; resets
	// after 24 hours.
	KindRateLimit Kind = "rate_limit_exceeded"
	// KindDailyLimit means the guest analysis quota for the day is spent.
	KindDailyLimit Kind = "daily_limit_exceeded"
	// KindInsufficientCredits means the per-session credit count reached zero.
	KindInsufficientCredits Kind = "insufficient_credits"
	// KindSessionInvalid means the token was rejected as expired or unknown;
	// callers recover by silently creating a fresh session.
	KindSessionInvalid Kind = "session_invalid"
	// KindTimeout means the request exceeded its deadline.
	KindTimeout Kind = "connection_timeout"
	// KindNetwork means a transport-level failure before any response.
	KindNetwork Kind = "network_failure"
	// KindGeneric carries the server message through verbatim.
	KindGeneric Kind = "generic_failure"
)

// Error is the error type for every failed API operation.
type Error struct {
	Kind       Kind
	Code       string // structured error_code from the server, when present
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("api error (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Structured error codes the backend may emit. When one is present it wins
// over message-text matching.
const (
	codeRateLimit           = "RATE_LIMIT_EXCEEDED"
	codeDailyLimit          = "DAILY_LIMIT_EXCEEDED"
	codeInsufficientCredits = "INSUFFICIENT_CREDITS"
	codeSessionInvalid      = "SESSION_INVALID"
)

// Phrase fragments matched against server messages, lowercased. Matching is
// ordered: rate-limit first because it is the most restrictive terminal
// condition (24-hour lockout), then daily-limit, then insufficient-credits.
var (
	rateLimitPhrases   = []string{"rate limit", "rate_limit", "too many sessions", "too many requests"}
	dailyLimitPhrases  = []string{"daily limit", "daily_limit", "daily analysis limit"}
	creditPhrases      = []string{"insufficient credits", "insufficient_credits", "no credits", "out of credits"}
	sessionPhrases     = []string{"session expired", "session_invalid", "invalid token", "invalid session", "token expired"}
	timeoutPhrases     = []string{"timeout", "timed out", "deadline exceeded"}
	networkPhrases     = []string{"connection refused", "no such host", "failed to fetch", "network"}
	classifiedByPhrase = [...]struct {
		kind    Kind
		phrases []string
	}{
		{KindRateLimit, rateLimitPhrases},
		{KindDailyLimit, dailyLimitPhrases},
		{KindInsufficientCredits, creditPhrases},
		{KindSessionInvalid, sessionPhrases},
	}
)

// Classify maps a server error to a Kind. A structured code is authoritative;
// the message substring match is the compatibility fallback for backends that
// only return human-readable text.
func Classify(code, message string) Kind {
	switch code {
	case codeRateLimit:
		return KindRateLimit
	case codeDailyLimit:
		return KindDailyLimit
	case codeInsufficientCredits:
		return KindInsufficientCredits
	case codeSessionInvalid:
		return KindSessionInvalid
	}

	lower := strings.ToLower(message)
	for _, c := range classifiedByPhrase {
		for _, phrase := range c.phrases {
			if strings.Contains(lower, phrase) {
				return c.kind
			}
		}
	}
	return KindGeneric
}

// classifyTransport maps a transport-level failure (no HTTP response) to a
// Kind based on the error text.
func classifyTransport(err error) Kind {
	lower := strings.ToLower(err.Error())
	for _, phrase := range timeoutPhrases {
		if strings.Contains(lower, phrase) {
			return KindTimeout
		}
	}
	for _, phrase := range networkPhrases {
		if strings.Contains(lower, phrase) {
			return KindNetwork
		}
	}
	return KindNetwork
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == kind
}
