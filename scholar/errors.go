package scholar

import (
	"errors"
	"fmt"
)

// FailureKind classifies a failed call.
type FailureKind string

const (
	KindInvalidInput      FailureKind = "invalid_input"
	KindInvalidCredential FailureKind = "invalid_credential"
	KindMissingCredential FailureKind = "missing_credential"
	KindNetwork           FailureKind = "network"
	KindProviderRejected  FailureKind = "provider_rejected"
	KindMalformedResponse FailureKind = "malformed_response"
)

// Sentinels for errors.Is; a *Failure matches the sentinel of its kind.
var (
	ErrInvalidInput      = &Failure{Kind: KindInvalidInput, Message: "invalid input"}
	ErrInvalidCredential = &Failure{Kind: KindInvalidCredential, Message: "invalid credential"}
	ErrMissingCredential = &Failure{Kind: KindMissingCredential, Message: "API key not set. Set your provider API key first."}
	ErrNetwork           = &Failure{Kind: KindNetwork, Message: "network error"}
	ErrProviderRejected  = &Failure{Kind: KindProviderRejected, Message: "provider rejected the request"}
	ErrMalformedResponse = &Failure{Kind: KindMalformedResponse, Message: "malformed provider response"}
)

// Failure is the classified error returned by every operation of this package.
type Failure struct {
	Kind    FailureKind
	Message string
	// Code is the provider error code, if the provider supplied one.
	Code string
	// StatusCode is the HTTP status of a ProviderRejected failure.
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("scholar: %s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("scholar: %s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Is reports whether target is a Failure of the same kind.
func (f *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}
	return t.Kind == f.Kind
}

// KindOf returns the failure kind of err, or "" when err is not a *Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

func invalidInput(format string, args ...any) *Failure {
	return &Failure{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func malformed(err error, format string, args ...any) *Failure {
	return &Failure{Kind: KindMalformedResponse, Message: fmt.Sprintf(format, args...), Err: err}
}

func networkFailure(err error) *Failure {
	return &Failure{Kind: KindNetwork, Message: "request to provider failed", Err: err}
}

func rejected(status int, code, message string, err error) *Failure {
	if message == "" {
		message = fmt.Sprintf("provider returned HTTP %d", status)
	}
	return &Failure{Kind: KindProviderRejected, Message: message, Code: code, StatusCode: status, Err: err}
}
