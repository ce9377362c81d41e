package scholar

import (
	"encoding/json"
	"strings"
)

// DefaultConfidence is reported when the provider omits a confidence value.
const DefaultConfidence = 0.8

// Normalizers turn a rawPayload into a domain result. Each returns the names of the
// optional fields it had to default, and never returns a partial result on error.

func normalizeTranscript(raw rawPayload) (string, []string, error) {
	if strings.TrimSpace(raw.Text) == "" {
		return "", nil, malformed(nil, "provider returned an empty transcript")
	}
	return raw.Text, nil, nil
}

func normalizeSummary(raw rawPayload) (SummaryResult, []string, error) {
	var p summaryPayload
	if err := decodeStructured(raw.Text, summarySchema, &p); err != nil {
		return SummaryResult{}, nil, err
	}
	if err := requireText("summary", p.Summary); err != nil {
		return SummaryResult{}, nil, err
	}

	var defaulted []string
	return SummaryResult{
		Summary:            p.Summary,
		KeyPoints:          orEmpty(p.KeyPoints, "keyPoints", &defaulted),
		CodeSnippets:       orEmpty(p.CodeSnippets, "codeSnippets", &defaulted),
		Topics:             orEmpty(p.Topics, "topics", &defaulted),
		Questions:          orEmpty(p.Questions, "questions", &defaulted),
		LearningObjectives: orEmpty(p.LearningObjectives, "learningObjectives", &defaulted),
	}, defaulted, nil
}

func normalizeAnswer(raw rawPayload) (QAResult, []string, error) {
	var p qaPayload
	if err := decodeStructured(raw.Text, qaSchema, &p); err != nil {
		return QAResult{}, nil, err
	}
	if err := requireText("answer", p.Answer); err != nil {
		return QAResult{}, nil, err
	}

	var defaulted []string
	confidence := DefaultConfidence
	if p.Confidence == nil {
		defaulted = append(defaulted, "confidence")
	} else {
		confidence = *p.Confidence
		if confidence < 0 || confidence > 1 {
			return QAResult{}, nil, malformed(nil, "confidence %v is outside [0,1]", confidence)
		}
	}
	return QAResult{
		Answer:           p.Answer,
		RelevantSections: orEmpty(p.RelevantSections, "relevantSections", &defaulted),
		Confidence:       confidence,
	}, defaulted, nil
}

func normalizeExercise(raw rawPayload) (Exercise, []string, error) {
	var p exercisePayload
	if err := decodeStructured(raw.Text, exerciseSchema, &p); err != nil {
		return Exercise{}, nil, err
	}
	for _, f := range []struct{ name, value string }{
		{"title", p.Title},
		{"description", p.Description},
		{"solution", p.Solution},
	} {
		if err := requireText(f.name, f.value); err != nil {
			return Exercise{}, nil, err
		}
	}

	var defaulted []string
	return Exercise{
		Title:        p.Title,
		Description:  p.Description,
		Instructions: orEmpty(p.Instructions, "instructions", &defaulted),
		StarterCode:  p.StarterCode,
		Solution:     p.Solution,
		Hints:        orEmpty(p.Hints, "hints", &defaulted),
		TestCases:    orEmpty(p.TestCases, "testCases", &defaulted),
	}, defaulted, nil
}

func normalizeExplanation(raw rawPayload) (CodeExplanation, []string, error) {
	var p explanationPayload
	if err := decodeStructured(raw.Text, explanationSchema, &p); err != nil {
		return CodeExplanation{}, nil, err
	}
	if err := requireText("explanation", p.Explanation); err != nil {
		return CodeExplanation{}, nil, err
	}

	var defaulted []string
	return CodeExplanation{
		Explanation:   p.Explanation,
		KeyComponents: orEmpty(p.KeyComponents, "keyComponents", &defaulted),
		Improvements:  orEmpty(p.Improvements, "improvements", &defaulted),
		UseCases:      orEmpty(p.UseCases, "useCases", &defaulted),
	}, defaulted, nil
}

// decodeStructured parses the embedded text as one JSON object, checks it against
// schema and decodes it into out.
func decodeStructured(text string, schema map[string]any, out any) error {
	body := stripCodeFence(strings.TrimSpace(text))
	if body == "" {
		return malformed(nil, "provider returned empty content")
	}

	var generic map[string]any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return malformed(err, "provider content is not a JSON object")
	}
	if err := validatePayload(schema, generic); err != nil {
		return malformed(err, "provider content does not match the expected schema")
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return malformed(err, "provider content does not match the expected schema")
	}
	return nil
}

// stripCodeFence removes a surrounding ```json ... ``` block some models add despite instructions.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "```"), "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
		s = s[nl+1:]
	}
	return strings.TrimSpace(s)
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return malformed(nil, "required field %q is empty", field)
	}
	return nil
}

func orEmpty[T any](v []T, field string, defaulted *[]string) []T {
	if v == nil {
		*defaulted = append(*defaulted, field)
		return []T{}
	}
	return v
}
