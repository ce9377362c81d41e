package scholar

import (
	"context"
	"encoding/json"
	"errors"
)

// transport is the internal interface each backend implements.
// Send performs exactly one network round trip and returns the provider envelope
// reduced to its embedded text, or a *Failure.
type transport interface {
	Send(ctx context.Context, req providerRequest, credential string) (rawPayload, error)
}

// rawPayload is the decoded provider envelope; Text is not yet parsed into a domain result.
type rawPayload struct {
	// Text is the embedded structured text (chat) or the transcript (transcription).
	Text         string
	Model        string
	FinishReason string

	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
}

func requireCredential(credential string) error {
	if credential == "" {
		return &Failure{Kind: KindMissingCredential, Message: ErrMissingCredential.Message}
	}
	return nil
}

// classifyTransportError handles errors that are not provider API errors:
// envelope decode errors are MalformedResponse, everything else is Network.
func classifyTransportError(err error) *Failure {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return malformed(err, "provider envelope could not be decoded")
	}
	return networkFailure(err)
}

// rawJSONSchema is a thin json.Marshaler wrapper to pass generic schemas
// into providers that take custom types implementing MarshalJSON.
type rawJSONSchema struct {
	m map[string]any
}

func (r rawJSONSchema) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.m)
}

func intPtr(v int) *int {
	return &v
}
