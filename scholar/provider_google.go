package scholar

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

type googleTransport struct {
	baseURL     string
	model       string
	temperature *float32
	httpClient  *http.Client
}

func newGoogleTransport(cfg ScholarConfig, httpClient *http.Client) *googleTransport {
	return &googleTransport{
		baseURL:     cfg.GoogleBaseURL,
		model:       cfg.ModelGoogle,
		temperature: cfg.Temperature,
		httpClient:  httpClient,
	}
}

func (p *googleTransport) client(ctx context.Context, credential string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: p.baseURL,
		},
	})
}

func (p *googleTransport) Send(ctx context.Context, req providerRequest, credential string) (rawPayload, error) {
	if err := requireCredential(credential); err != nil {
		return rawPayload{}, err
	}
	gc, err := p.client(ctx, credential)
	if err != nil {
		return rawPayload{}, &Failure{Kind: KindNetwork, Message: "could not initialise the google client", Err: err}
	}

	cfg := &genai.GenerateContentConfig{}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if p.temperature != nil {
		cfg.Temperature = genai.Ptr[float32](*p.temperature)
	}

	var contents []*genai.Content
	switch req.Endpoint {
	case endpointChat:
		if len(req.ResponseSchema) > 0 {
			cfg.ResponseMIMEType = "application/json"
			cfg.ResponseJsonSchema = req.ResponseSchema
		}
		contents = genai.Text(req.Input)
	case endpointTranscription:
		if req.Media == nil {
			return rawPayload{}, invalidInput("transcription request has no media")
		}
		contents = []*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: req.Media.MIMEType, Data: req.Media.Data}},
				{Text: req.Input},
			},
		}}
	default:
		return rawPayload{}, invalidInput("google: unsupported endpoint %s", req.Endpoint)
	}

	res, err := gc.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return rawPayload{}, classifyGoogleError(err)
	}
	return rawPayloadFromGenAI(res, p.model)
}

// rawPayloadFromGenAI extracts the text parts of the first candidate.
func rawPayloadFromGenAI(res *genai.GenerateContentResponse, model string) (rawPayload, error) {
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return rawPayload{}, malformed(nil, "provider response has no candidates")
	}

	out := rawPayload{Model: model}
	if res.ModelVersion != "" {
		out.Model = res.ModelVersion
	}
	cand := res.Candidates[0]
	out.FinishReason = string(cand.FinishReason)
	for _, part := range cand.Content.Parts {
		if part == nil || part.Text == "" || part.Thought {
			continue
		}
		// If multiple text parts, concatenate with a newline.
		if out.Text == "" {
			out.Text = part.Text
		} else {
			out.Text += "\n" + part.Text
		}
	}

	if res.UsageMetadata != nil {
		if res.UsageMetadata.PromptTokenCount > 0 {
			out.PromptTokens = intPtr(int(res.UsageMetadata.PromptTokenCount))
		}
		if res.UsageMetadata.CandidatesTokenCount > 0 {
			out.CompletionTokens = intPtr(int(res.UsageMetadata.CandidatesTokenCount))
		}
		if res.UsageMetadata.TotalTokenCount > 0 {
			out.TotalTokens = intPtr(int(res.UsageMetadata.TotalTokenCount))
		}
	}
	return out, nil
}

// classifyGoogleError maps genai errors onto the failure taxonomy.
func classifyGoogleError(err error) *Failure {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return rejected(apiErr.Code, apiErr.Status, apiErr.Message, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return rejected(apiErrPtr.Code, apiErrPtr.Status, apiErrPtr.Message, err)
	}
	return classifyTransportError(err)
}
