package scholar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type openAITransport struct {
	baseURL            string
	orgID              string
	chatModel          string
	transcriptionModel string
	jsonSchemaFormat   bool
	temperature        *float32
	httpClient         *http.Client
}

func newOpenAITransport(cfg ScholarConfig, httpClient *http.Client) *openAITransport {
	return &openAITransport{
		baseURL:            cfg.OpenAIBaseURL,
		orgID:              cfg.OpenAIOrgID,
		chatModel:          cfg.ChatModelOpenAI,
		transcriptionModel: cfg.TranscriptionModelOpenAI,
		jsonSchemaFormat:   cfg.JSONSchemaFormat,
		temperature:        cfg.Temperature,
		httpClient:         httpClient,
	}
}

// client builds a go-openai client bound to the credential of this call.
func (p *openAITransport) client(credential string) *openai.Client {
	oc := openai.DefaultConfig(credential)
	if p.baseURL != "" {
		oc.BaseURL = p.baseURL
	}
	if p.orgID != "" {
		oc.OrgID = p.orgID
	}
	if p.httpClient != nil {
		oc.HTTPClient = p.httpClient
	}
	return openai.NewClientWithConfig(oc)
}

func (p *openAITransport) Send(ctx context.Context, req providerRequest, credential string) (rawPayload, error) {
	if err := requireCredential(credential); err != nil {
		return rawPayload{}, err
	}
	switch req.Endpoint {
	case endpointTranscription:
		return p.transcribe(ctx, req, credential)
	case endpointChat:
		return p.chat(ctx, req, credential)
	default:
		return rawPayload{}, invalidInput("openai: unsupported endpoint %s", req.Endpoint)
	}
}

func (p *openAITransport) transcribe(ctx context.Context, req providerRequest, credential string) (rawPayload, error) {
	if req.Media == nil {
		return rawPayload{}, invalidInput("transcription request has no media")
	}
	if req.Media.Kind == MediaKindDocument {
		return rawPayload{}, invalidInput("document transcription is not supported by provider %s", ProviderOpenAI)
	}

	resp, err := p.client(credential).CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.transcriptionModel,
		FilePath: req.Media.Name,
		Reader:   bytes.NewReader(req.Media.Data),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return rawPayload{}, classifyOpenAIError(err)
	}
	return rawPayload{Text: resp.Text, Model: p.transcriptionModel}, nil
}

func (p *openAITransport) chat(ctx context.Context, req providerRequest, credential string) (rawPayload, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Input,
	})

	creq := openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: msgs,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}
	if p.jsonSchemaFormat && len(req.ResponseSchema) > 0 {
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.SchemaName,
				Schema: rawJSONSchema{m: req.ResponseSchema},
			},
		}
	}
	if p.temperature != nil {
		creq.Temperature = *p.temperature
	}

	resp, err := p.client(credential).CreateChatCompletion(ctx, creq)
	if err != nil {
		return rawPayload{}, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return rawPayload{}, malformed(nil, "provider response has no choices")
	}

	choice := resp.Choices[0]
	out := rawPayload{
		Text:         choice.Message.Content,
		Model:        resp.Model,
		FinishReason: string(choice.FinishReason),
	}
	if resp.Usage.PromptTokens > 0 {
		out.PromptTokens = intPtr(resp.Usage.PromptTokens)
	}
	if resp.Usage.CompletionTokens > 0 {
		out.CompletionTokens = intPtr(resp.Usage.CompletionTokens)
	}
	if resp.Usage.TotalTokens > 0 {
		out.TotalTokens = intPtr(resp.Usage.TotalTokens)
	}
	return out, nil
}

// classifyOpenAIError maps go-openai errors onto the failure taxonomy.
func classifyOpenAIError(err error) *Failure {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := errorCode(apiErr.Code)
		if code == "" {
			code = apiErr.Type
		}
		return rejected(apiErr.HTTPStatusCode, code, apiErr.Message, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return rejected(reqErr.HTTPStatusCode, "", "", err)
	}
	return classifyTransportError(err)
}

func errorCode(code any) string {
	switch v := code.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
