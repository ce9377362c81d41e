package scholar

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	envOpenAIAPIKey = "OPENAI_API_KEY"
	envGoogleAPIKey = "GOOGLE_API_KEY"
	envProvider     = "SCHOLAR_PROVIDER"

	// DefaultMaxMediaBytes is the upload limit of the lecture uploader.
	DefaultMaxMediaBytes int64 = 100 * 1024 * 1024
)

// ScholarConfig contains client-wide configuration.
// Secrets, models and HTTP knobs live here; the active credential lives in the CredentialStore.
type ScholarConfig struct {
	// Provider selects the backend; defaults to ProviderOpenAI.
	Provider Provider `yaml:"provider"`

	// OpenAI configuration.
	OpenAIAPIKey  string `yaml:"openaiApiKey"`  // seeds the credential store; env OPENAI_API_KEY with DetectEnv
	OpenAIBaseURL string `yaml:"openaiBaseUrl"` // optional; OpenAI-compatible endpoints
	OpenAIOrgID   string `yaml:"openaiOrgId"`

	// Google/GenAI configuration (Gemini Developer API).
	GoogleAPIKey  string `yaml:"googleApiKey"` // seeds the credential store; env GOOGLE_API_KEY with DetectEnv
	GoogleBaseURL string `yaml:"googleBaseUrl"`

	// Models.
	ChatModelOpenAI          string `yaml:"chatModelOpenai"`
	TranscriptionModelOpenAI string `yaml:"transcriptionModelOpenai"`
	ModelGoogle              string `yaml:"modelGoogle"`

	// JSONSchemaFormat sends the response schema as an OpenAI json_schema response format
	// instead of a plain json_object directive. Google always receives the schema.
	JSONSchemaFormat bool     `yaml:"jsonSchemaFormat"`
	Temperature      *float32 `yaml:"temperature"`

	// Input validation.
	MaxMediaBytes    int64                `yaml:"maxMediaBytes"`
	MediaTypes       map[string]MediaKind `yaml:"mediaTypes"`
	Languages        []string             `yaml:"languages"`
	Difficulties     []string             `yaml:"difficulties"`
	Topics           []string             `yaml:"topics"`
	ExplainLanguages []string             `yaml:"explainLanguages"`

	// Timeout bounds one provider round trip when HTTPClient is nil. Zero means DefaultTimeout.
	Timeout time.Duration `yaml:"timeout"`
	// Retry applies to Network failures only. MaxAttempts 1 means no retry.
	Retry RetryConfig `yaml:"retry"`

	// DetectEnv pulls missing keys and the provider from the environment.
	DetectEnv bool `yaml:"detectEnv"`

	HTTPClient  *http.Client    `yaml:"-"`
	Logger      *zerolog.Logger `yaml:"-"`
	Notifier    Notifier        `yaml:"-"`
	Credentials CredentialStore `yaml:"-"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() ScholarConfig {
	return ScholarConfig{
		Provider:                 ProviderOpenAI,
		ChatModelOpenAI:          "gpt-4o",
		TranscriptionModelOpenAI: "whisper-1",
		ModelGoogle:              "gemini-2.5-flash",
		MaxMediaBytes:            DefaultMaxMediaBytes,
		MediaTypes: map[string]MediaKind{
			"video/mp4":       MediaKindVideo,
			"video/quicktime": MediaKindVideo,
			"video/webm":      MediaKindVideo,
			"application/pdf": MediaKindDocument,
		},
		Languages:    []string{"python", "javascript", "java", "r"},
		Difficulties: []string{"beginner", "intermediate", "advanced"},
		Topics: []string{
			"variables", "functions", "loops", "conditionals", "arrays", "objects",
			"data structures", "algorithms", "machine learning", "data analysis",
		},
		ExplainLanguages: []string{"python", "r", "java", "javascript"},
		Timeout:          DefaultTimeout,
		Retry:            NoRetry,
	}
}

// LoadConfig reads a YAML file and fills every field it leaves unset from DefaultConfig.
// Lists and maps present in the file replace the defaults. An empty path yields the defaults.
func LoadConfig(path string) (ScholarConfig, error) {
	var cfg ScholarConfig
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("scholar: read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("scholar: parse config %s: %w", path, err)
		}
	}
	if cfg.DetectEnv {
		cfg.applyEnv()
	}
	cfg = withDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *ScholarConfig) applyEnv() {
	if c.OpenAIAPIKey == "" {
		c.OpenAIAPIKey = os.Getenv(envOpenAIAPIKey)
	}
	if c.GoogleAPIKey == "" {
		c.GoogleAPIKey = os.Getenv(envGoogleAPIKey)
	}
	if p := strings.TrimSpace(os.Getenv(envProvider)); p != "" {
		c.Provider = Provider(strings.ToLower(p))
	}
}

// Validate checks the configuration for values no call could succeed with.
func (c ScholarConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("scholar: unknown provider %q", c.Provider)
	}
	if c.MaxMediaBytes <= 0 {
		return errors.New("scholar: maxMediaBytes must be positive")
	}
	if len(c.MediaTypes) == 0 {
		return errors.New("scholar: mediaTypes must not be empty")
	}
	for mt, kind := range c.MediaTypes {
		if kind != MediaKindVideo && kind != MediaKindDocument {
			return fmt.Errorf("scholar: media type %s has unknown kind %q", mt, kind)
		}
	}
	if len(c.Languages) == 0 || len(c.Difficulties) == 0 || len(c.Topics) == 0 {
		return errors.New("scholar: exercise languages, difficulties and topics must not be empty")
	}
	if len(c.ExplainLanguages) == 0 {
		return errors.New("scholar: explainLanguages must not be empty")
	}
	if c.Timeout < 0 {
		return errors.New("scholar: timeout must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return errors.New("scholar: retry.maxAttempts must be at least 1")
	}
	if c.Retry.InitialBackoff < 0 || c.Retry.MaxBackoff < 0 || c.Retry.BackoffMultiplier < 0 {
		return errors.New("scholar: retry backoff values must not be negative")
	}
	return nil
}

// providerAPIKey returns the configured key for the active provider.
func (c ScholarConfig) providerAPIKey() string {
	if c.Provider == ProviderGoogle {
		return c.GoogleAPIKey
	}
	return c.OpenAIAPIKey
}
