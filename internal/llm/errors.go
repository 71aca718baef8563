package llm

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrQuotaExhausted indicates the model's quota or rate limit was hit.
	ErrQuotaExhausted = errors.New("model quota exhausted")
	// ErrModelNotFound indicates the model identifier is unknown or unavailable.
	ErrModelNotFound = errors.New("model not found")
	// ErrNoAPIKey indicates no credentials were configured for the provider.
	ErrNoAPIKey = errors.New("no API key configured")
	// ErrEmptyResponse indicates the model answered without any text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// ErrorKind is the coarse classification of a generation failure.
type ErrorKind int

const (
	// KindOther covers every failure that is not quota or not-found.
	KindOther ErrorKind = iota
	// KindQuotaExhausted means the identifier is temporarily out of quota.
	KindQuotaExhausted
	// KindNotFound means the identifier does not exist for this account.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindQuotaExhausted:
		return "quota_exhausted"
	case KindNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// ClassifyError sorts a generation error into an ErrorKind. Typed sentinels
// are checked first, then the provider's status text.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, ErrQuotaExhausted) {
		return KindQuotaExhausted
	}
	if errors.Is(err, ErrModelNotFound) {
		return KindNotFound
	}
	// Transport errors quote the URL, which may contain digits like 429.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindOther
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"), strings.Contains(msg, "429"):
		return KindQuotaExhausted
	case strings.Contains(msg, "NOT_FOUND"), strings.Contains(msg, "404"):
		return KindNotFound
	default:
		return KindOther
	}
}
