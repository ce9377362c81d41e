package scholar

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds one provider round trip when ScholarConfig.Timeout is zero.
const DefaultTimeout = 5 * time.Minute

// Client is the orchestration layer the UI calls into.
// It is safe for concurrent use; calls share nothing but the credential store.
type Client struct {
	cfg       ScholarConfig
	creds     CredentialStore
	transport transport
	log       zerolog.Logger
	notify    Notifier
}

// New creates a Client. Zero-valued fields of cfg take their DefaultConfig values.
//
// When cfg.Credentials is nil an in-memory store is used, seeded with the configured
// API key of the active provider (DetectEnv pulls it from the environment).
func New(cfg ScholarConfig) (*Client, error) {
	if cfg.DetectEnv {
		cfg.applyEnv()
	}
	cfg = withDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = cfg.Logger.With().Str("component", "scholar").Logger()
	}

	creds := cfg.Credentials
	if ls, ok := creds.(loggedStore); ok {
		ls.setLogger(log)
	}
	if creds == nil {
		mem := NewMemoryCredentialStore(cfg.Notifier)
		if key, err := normalizeCredential(cfg.providerAPIKey()); err == nil {
			mem.token = key
			log.Debug().Str("credential", maskCredential(key)).Msg("Seeded credential from configuration")
		}
		creds = mem
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var tr transport
	switch cfg.Provider {
	case ProviderGoogle:
		tr = newGoogleTransport(cfg, httpClient)
	default:
		tr = newOpenAITransport(cfg, httpClient)
	}

	return &Client{
		cfg:       cfg,
		creds:     creds,
		transport: tr,
		log:       log,
		notify:    cfg.Notifier,
	}, nil
}

// loggedStore is implemented by stores whose reads can fail.
type loggedStore interface {
	setLogger(zerolog.Logger)
}

func withDefaults(cfg ScholarConfig) ScholarConfig {
	def := DefaultConfig()
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if cfg.ChatModelOpenAI == "" {
		cfg.ChatModelOpenAI = def.ChatModelOpenAI
	}
	if cfg.TranscriptionModelOpenAI == "" {
		cfg.TranscriptionModelOpenAI = def.TranscriptionModelOpenAI
	}
	if cfg.ModelGoogle == "" {
		cfg.ModelGoogle = def.ModelGoogle
	}
	if cfg.MaxMediaBytes == 0 {
		cfg.MaxMediaBytes = def.MaxMediaBytes
	}
	if cfg.MediaTypes == nil {
		cfg.MediaTypes = def.MediaTypes
	}
	if cfg.Languages == nil {
		cfg.Languages = def.Languages
	}
	if cfg.Difficulties == nil {
		cfg.Difficulties = def.Difficulties
	}
	if cfg.Topics == nil {
		cfg.Topics = def.Topics
	}
	if cfg.ExplainLanguages == nil {
		cfg.ExplainLanguages = def.ExplainLanguages
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if cfg.Retry.InitialBackoff == 0 {
		cfg.Retry.InitialBackoff = def.Retry.InitialBackoff
	}
	if cfg.Retry.MaxBackoff == 0 {
		cfg.Retry.MaxBackoff = def.Retry.MaxBackoff
	}
	if cfg.Retry.BackoffMultiplier == 0 {
		cfg.Retry.BackoffMultiplier = def.Retry.BackoffMultiplier
	}
	return cfg
}

// Config returns the effective configuration.
func (c *Client) Config() ScholarConfig {
	return c.cfg
}

// Credentials returns the credential store the client reads on every call.
func (c *Client) Credentials() CredentialStore {
	return c.creds
}

// HasCredential reports whether a credential is configured.
func (c *Client) HasCredential() bool {
	return c.creds.HasCredential()
}

// SetCredential stores a new credential, replacing the previous one.
func (c *Client) SetCredential(token string) error {
	if err := c.creds.SetCredential(token); err != nil {
		return err
	}
	c.log.Info().Str("credential", maskCredential(c.creds.GetCredential())).Msg("Credential updated")
	return nil
}

// Transcribe turns a lecture recording (or, with the google provider, a PDF) into text.
func (c *Client) Transcribe(ctx context.Context, media MediaInput) (string, error) {
	return run(ctx, c, capabilityCall[string]{
		capability: CapabilityTranscribe,
		build: func() (providerRequest, error) {
			m, err := ValidateMedia(media, c.cfg.MediaTypes, c.cfg.MaxMediaBytes)
			if err != nil {
				return providerRequest{}, err
			}
			if m.Kind == MediaKindDocument && c.cfg.Provider == ProviderOpenAI {
				return providerRequest{}, invalidInput("document transcription is not supported by provider %s", c.cfg.Provider)
			}
			return buildTranscriptionRequest(m), nil
		},
		normalize: normalizeTranscript,
	})
}

// Summarize produces a structured summary of a lecture transcript.
func (c *Client) Summarize(ctx context.Context, transcript string) (SummaryResult, error) {
	return run(ctx, c, capabilityCall[SummaryResult]{
		capability: CapabilitySummarize,
		build: func() (providerRequest, error) {
			return buildSummaryRequest(transcript)
		},
		normalize: normalizeSummary,
	})
}

// AnswerQuestion answers a question about the given document text.
func (c *Client) AnswerQuestion(ctx context.Context, document, question string) (QAResult, error) {
	return run(ctx, c, capabilityCall[QAResult]{
		capability: CapabilityAnswer,
		build: func() (providerRequest, error) {
			return buildQARequest(document, question)
		},
		normalize: normalizeAnswer,
	})
}

// GenerateExercise creates a programming exercise. Each parameter must be one of the
// configured values (case-insensitive).
func (c *Client) GenerateExercise(ctx context.Context, language, difficulty, topic string) (Exercise, error) {
	opts := exerciseOptions{
		Languages:    c.cfg.Languages,
		Difficulties: c.cfg.Difficulties,
		Topics:       c.cfg.Topics,
	}
	return run(ctx, c, capabilityCall[Exercise]{
		capability: CapabilityExercise,
		build: func() (providerRequest, error) {
			return buildExerciseRequest(language, difficulty, topic, opts)
		},
		normalize: normalizeExercise,
	})
}

// ExplainCode explains a code fragment written in one of the configured languages.
func (c *Client) ExplainCode(ctx context.Context, language, code string) (CodeExplanation, error) {
	return run(ctx, c, capabilityCall[CodeExplanation]{
		capability: CapabilityExplain,
		build: func() (providerRequest, error) {
			return buildExplainRequest(language, code, c.cfg.ExplainLanguages)
		},
		normalize: normalizeExplanation,
	})
}

// capabilityCall plugs a builder/normalizer pair into the shared state machine.
type capabilityCall[T any] struct {
	capability Capability
	build      func() (providerRequest, error)
	normalize  func(rawPayload) (T, []string, error)
}

// run executes CheckingCredential -> BuildingRequest -> AwaitingTransport -> Normalizing -> Done,
// moving to Failed on the first error, which is returned unchanged.
func run[T any](ctx context.Context, c *Client, call capabilityCall[T]) (T, error) {
	var zero T
	reqID := uuid.NewString()
	log := c.log.With().
		Str("request_id", reqID).
		Str("capability", string(call.capability)).
		Str("provider", string(c.cfg.Provider)).
		Logger()

	enter := func(s Stage, err error) {
		log.Debug().Str("stage", string(s)).Msg("Stage transition")
		c.notify.emit(Event{Type: EventStage, RequestID: reqID, Capability: call.capability, Stage: s, Err: err})
	}
	fail := func(err error) (T, error) {
		enter(StageFailed, err)
		log.Warn().Err(err).Str("failure_kind", string(KindOf(err))).Msg("Request failed")
		return zero, err
	}

	enter(StageCheckingCredential, nil)
	credential := ""
	if c.creds.HasCredential() {
		credential = c.creds.GetCredential()
	}
	if credential == "" {
		return fail(&Failure{Kind: KindMissingCredential, Message: ErrMissingCredential.Message})
	}

	enter(StageBuildingRequest, nil)
	req, err := call.build()
	if err != nil {
		return fail(err)
	}

	enter(StageAwaitingTransport, nil)
	start := time.Now()
	raw, err := withRetry(ctx, c.cfg.Retry, func() (rawPayload, error) {
		return c.transport.Send(ctx, req, credential)
	}, func(attempt int, err error) {
		log.Warn().Err(err).Int("attempt", attempt).Msg("Retrying provider request after network failure")
	})
	if err != nil {
		return fail(err)
	}
	evt := log.Debug().
		Str("endpoint", req.Endpoint.String()).
		Str("model", raw.Model).
		Str("finish_reason", raw.FinishReason).
		Dur("elapsed", time.Since(start))
	if raw.TotalTokens != nil {
		evt = evt.Int("total_tokens", *raw.TotalTokens)
	}
	evt.Msg("Provider responded")

	enter(StageNormalizing, nil)
	result, defaulted, err := call.normalize(raw)
	if err != nil {
		return fail(err)
	}
	if len(defaulted) > 0 {
		log.Warn().Strs("fields", defaulted).Msg("Provider omitted optional fields, defaults applied")
	}

	enter(StageDone, nil)
	return result, nil
}
