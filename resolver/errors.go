package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies resolution failures so the UI can show an actionable
// message instead of a generic network error.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindEmptyPlaylist     Kind = "empty_playlist"
	KindQuotaExceeded     Kind = "quota_exceeded"
	KindMissingCredential Kind = "missing_credential"
	KindNetworkError      Kind = "network_error"
)

// ResolutionError is the tagged failure of a resolve attempt. Message is
// written for end users.
type ResolutionError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from an error chain, defaulting to
// network error for untagged failures.
func KindOf(err error) Kind {
	var rerr *ResolutionError
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindNetworkError
}

// UserMessage returns the end-user message for a resolution failure.
func UserMessage(err error) string {
	var rerr *ResolutionError
	if errors.As(err, &rerr) {
		return rerr.Message
	}
	return "Could not reach the video service. Try again in a moment."
}

func errNotFound() *ResolutionError {
	return &ResolutionError{
		Kind:    KindNotFound,
		Message: "Video not found. It may be private or deleted.",
	}
}

func errEmptyPlaylist() *ResolutionError {
	return &ResolutionError{
		Kind:    KindEmptyPlaylist,
		Message: "That playlist has no playable videos.",
	}
}

func errQuotaExceeded() *ResolutionError {
	return &ResolutionError{
		Kind:    KindQuotaExceeded,
		Message: "Search quota is used up for today. Paste a direct video link instead.",
	}
}

func errMissingCredential() *ResolutionError {
	return &ResolutionError{
		Kind:    KindMissingCredential,
		Message: "Search needs a YouTube API key. Paste a direct video link instead.",
	}
}

func errNetwork(err error) *ResolutionError {
	return &ResolutionError{
		Kind:    KindNetworkError,
		Message: "Could not reach the video service. Try again in a moment.",
		Err:     err,
	}
}
