package scholar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGoogleTestTransport(t *testing.T, handler http.HandlerFunc) *googleTransport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.GoogleBaseURL = srv.URL + "/"
	return newGoogleTransport(cfg, srv.Client())
}

func TestGoogleTransport_Chat(t *testing.T) {
	var body map[string]any
	tr := newGoogleTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "g-key" {
			t.Errorf("x-goog-api-key = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"explanation\":"}, {"text": "\"ok\"}"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 3, "totalTokenCount": 10},
			"modelVersion": "gemini-2.5-flash-001"
		}`)
	})

	req, err := buildExplainRequest("python", "print(1)", DefaultConfig().ExplainLanguages)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	raw, err := tr.Send(context.Background(), req, "g-key")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if raw.Text != "{\"explanation\":\n\"ok\"}" {
		t.Fatalf("text = %q", raw.Text)
	}
	if raw.Model != "gemini-2.5-flash-001" || raw.FinishReason != "STOP" {
		t.Fatalf("unexpected payload %+v", raw)
	}
	if raw.TotalTokens == nil || *raw.TotalTokens != 10 {
		t.Fatalf("usage not recorded")
	}

	genCfg, _ := body["generationConfig"].(map[string]any)
	if genCfg["responseMimeType"] != "application/json" {
		t.Fatalf("generationConfig = %v", genCfg)
	}
	if _, ok := body["systemInstruction"]; !ok {
		t.Fatalf("system instruction missing from request")
	}
}

func TestGoogleTransport_TranscriptionSendsInlineMedia(t *testing.T) {
	var body map[string]any
	tr := newGoogleTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates": [{"content": {"role": "model", "parts": [{"text": "Lecture one."}]}}]}`)
	})

	req := buildTranscriptionRequest(MediaInput{Name: "l.pdf", MIMEType: "application/pdf", Kind: MediaKindDocument, Data: []byte("%PDF")})
	raw, err := tr.Send(context.Background(), req, "g-key")
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if raw.Text != "Lecture one." {
		t.Fatalf("text = %q", raw.Text)
	}

	contents, _ := body["contents"].([]any)
	if len(contents) != 1 {
		t.Fatalf("contents = %v", body["contents"])
	}
	parts, _ := contents[0].(map[string]any)["parts"].([]any)
	inline, _ := parts[0].(map[string]any)["inlineData"].(map[string]any)
	if inline["mimeType"] != "application/pdf" {
		t.Fatalf("inline data = %v", inline)
	}
}

func TestGoogleTransport_Rejected(t *testing.T) {
	tr := newGoogleTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`)
	})

	req, _ := buildSummaryRequest("text")
	_, err := tr.Send(context.Background(), req, "g-key")
	f, ok := err.(*Failure)
	if !ok || f.Kind != KindProviderRejected {
		t.Fatalf("expected ProviderRejected, got %v", err)
	}
	if f.Message != "API key not valid" || f.StatusCode != http.StatusForbidden || f.Code != "PERMISSION_DENIED" {
		t.Fatalf("unexpected failure %+v", f)
	}
}

func TestGoogleTransport_NoCandidates(t *testing.T) {
	tr := newGoogleTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates": []}`)
	})
	req, _ := buildSummaryRequest("text")
	if _, err := tr.Send(context.Background(), req, "g-key"); KindOf(err) != KindMalformedResponse {
		t.Fatalf("expected MalformedResponse, got %v", err)
	}
}
