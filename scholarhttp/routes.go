package scholarhttp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oraraka-deko/scholar/scholar"
	"github.com/rs/zerolog"
)

// Service is the part of *scholar.Client the facade calls.
type Service interface {
	HasCredential() bool
	SetCredential(token string) error
	Transcribe(ctx context.Context, media scholar.MediaInput) (string, error)
	Summarize(ctx context.Context, transcript string) (scholar.SummaryResult, error)
	AnswerQuestion(ctx context.Context, document, question string) (scholar.QAResult, error)
	GenerateExercise(ctx context.Context, language, difficulty, topic string) (scholar.Exercise, error)
	ExplainCode(ctx context.Context, language, code string) (scholar.CodeExplanation, error)
}

type ServerConfig struct {
	Service Service
	Logger  zerolog.Logger
	// MaxUploadBytes caps how much of a /transcribe body is read. Defaults to scholar.DefaultMaxMediaBytes.
	MaxUploadBytes int64
	// MaxJSONBytes caps a JSON request body. Defaults to DefaultMaxJSONBytes.
	MaxJSONBytes int64
}

// DefaultMaxJSONBytes leaves room for a long transcript or HTML document.
const DefaultMaxJSONBytes = 10 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = scholar.DefaultMaxMediaBytes
	}
	if cfg.MaxJSONBytes <= 0 {
		cfg.MaxJSONBytes = DefaultMaxJSONBytes
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/credential", getCredentialHandler(cfg))
	r.Put("/credential", putCredentialHandler(cfg))
	r.Post("/transcribe", transcribeHandler(cfg))
	r.Post("/summarize", summarizeHandler(cfg))
	r.Post("/answer", answerHandler(cfg))
	r.Post("/exercise", exerciseHandler(cfg))
	r.Post("/explain", explainHandler(cfg))

	return r
}

func getCredentialHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, CredentialStatusResponse{Present: cfg.Service.HasCredential()})
	}
}

func putCredentialHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetCredentialRequest
		if !decodeBody(w, r, cfg.MaxJSONBytes, &req) {
			return
		}
		if err := cfg.Service.SetCredential(req.Token); err != nil {
			WriteFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func transcribeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// one byte over the limit is enough for the size check to reject it
		data, err := io.ReadAll(io.LimitReader(r.Body, cfg.MaxUploadBytes+1))
		if err != nil {
			WriteError(w, http.StatusBadRequest, ErrorResponse{Kind: string(scholar.KindInvalidInput), Message: "could not read request body"})
			return
		}

		text, err := cfg.Service.Transcribe(r.Context(), scholar.MediaInput{
			Name:     r.Header.Get("X-File-Name"),
			MIMEType: r.Header.Get("Content-Type"),
			Data:     data,
		})
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, TranscribeResponse{Text: text})
	}
}

func summarizeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SummarizeRequest
		if !decodeBody(w, r, cfg.MaxJSONBytes, &req) {
			return
		}
		res, err := cfg.Service.Summarize(r.Context(), req.Transcript)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func answerHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if !decodeBody(w, r, cfg.MaxJSONBytes, &req) {
			return
		}

		document := req.Document
		if strings.TrimSpace(document) == "" && strings.TrimSpace(req.DocumentHTML) != "" {
			text, err := scholar.DocumentTextFromHTML(strings.NewReader(req.DocumentHTML))
			if err != nil {
				WriteFailure(w, err)
				return
			}
			document = text
		}

		res, err := cfg.Service.AnswerQuestion(r.Context(), document, req.Question)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func exerciseHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExerciseRequest
		if !decodeBody(w, r, cfg.MaxJSONBytes, &req) {
			return
		}
		res, err := cfg.Service.GenerateExercise(r.Context(), req.Language, req.Difficulty, req.Topic)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func explainHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExplainRequest
		if !decodeBody(w, r, cfg.MaxJSONBytes, &req) {
			return
		}
		res, err := cfg.Service.ExplainCode(r.Context(), req.Language, req.Code)
		if err != nil {
			WriteFailure(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, res)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, ErrorResponse{Kind: string(scholar.KindInvalidInput), Message: "request body too large"})
		return false
	}
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrorResponse{Kind: string(scholar.KindInvalidInput), Message: "invalid request body"})
		return false
	}
	return true
}
