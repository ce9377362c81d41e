package scholar

import (
	"strings"
	"testing"
)

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		wantErr string
	}{
		{"valid", map[string]any{"answer": "yes", "relevantSections": []any{"a"}, "confidence": 0.5}, ""},
		{"null optional", map[string]any{"answer": "yes", "confidence": nil}, ""},
		{"extra field", map[string]any{"answer": "yes", "source": 3.0}, ""},
		{"missing required", map[string]any{"confidence": 0.5}, `missing required field "answer"`},
		{"null required", map[string]any{"answer": nil}, `missing required field "answer"`},
		{"string mismatch", map[string]any{"answer": 1.0}, `field "answer": expected string`},
		{"number mismatch", map[string]any{"answer": "yes", "confidence": "high"}, `field "confidence": expected number`},
		{"array mismatch", map[string]any{"answer": "yes", "relevantSections": "a"}, `field "relevantSections": expected array`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePayload(qaSchema, tt.payload)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateType_UnlistedTypePasses(t *testing.T) {
	if err := validateType("meta", map[string]any{"k": "v"}, "object"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
