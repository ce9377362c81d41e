package scholar

import (
	"strings"
	"testing"
)

func TestBuildSummaryRequest(t *testing.T) {
	req, err := buildSummaryRequest("Loops repeat a block of code.")
	if err != nil {
		t.Fatalf("buildSummaryRequest error: %v", err)
	}
	if req.Endpoint != endpointChat || req.Capability != CapabilitySummarize {
		t.Fatalf("unexpected target %v/%v", req.Endpoint, req.Capability)
	}
	if !strings.HasSuffix(req.Input, "Loops repeat a block of code.") {
		t.Fatalf("transcript not embedded verbatim: %q", req.Input)
	}
	if !strings.Contains(req.System, `"learningObjectives"`) {
		t.Fatalf("system instruction does not carry the schema: %q", req.System)
	}
	if req.ResponseSchema == nil || req.SchemaName == "" {
		t.Fatalf("response schema marker missing")
	}
}

func TestBuilders_RejectBlankText(t *testing.T) {
	opts := exerciseOptions{
		Languages:    DefaultConfig().Languages,
		Difficulties: DefaultConfig().Difficulties,
		Topics:       DefaultConfig().Topics,
	}
	tests := []struct {
		name string
		err  error
	}{
		{"summary", func() error { _, err := buildSummaryRequest(" \t\n"); return err }()},
		{"qa document", func() error { _, err := buildQARequest("", "why?"); return err }()},
		{"qa question", func() error { _, err := buildQARequest("doc", "  "); return err }()},
		{"exercise language", func() error { _, err := buildExerciseRequest("", "beginner", "loops", opts); return err }()},
		{"explain code", func() error { _, err := buildExplainRequest("python", "\n", DefaultConfig().ExplainLanguages); return err }()},
	}
	for _, tt := range tests {
		if KindOf(tt.err) != KindInvalidInput {
			t.Fatalf("%s: expected InvalidInput, got %v", tt.name, tt.err)
		}
	}
}

func TestBuildExerciseRequest_Enums(t *testing.T) {
	def := DefaultConfig()
	opts := exerciseOptions{Languages: def.Languages, Difficulties: def.Difficulties, Topics: def.Topics}

	req, err := buildExerciseRequest(" Python ", "BEGINNER", "Data Structures", opts)
	if err != nil {
		t.Fatalf("buildExerciseRequest error: %v", err)
	}
	if req.Input != "Create a beginner programming exercise in python about data structures." {
		t.Fatalf("unexpected input %q", req.Input)
	}

	for _, args := range [][3]string{
		{"cobol", "beginner", "loops"},
		{"python", "expert", "loops"},
		{"python", "beginner", "quantum computing"},
	} {
		if _, err := buildExerciseRequest(args[0], args[1], args[2], opts); KindOf(err) != KindInvalidInput {
			t.Fatalf("%v: expected InvalidInput, got %v", args, err)
		}
	}
}

func TestBuildExplainRequest(t *testing.T) {
	req, err := buildExplainRequest("R", "x <- c(1, 2)", DefaultConfig().ExplainLanguages)
	if err != nil {
		t.Fatalf("buildExplainRequest error: %v", err)
	}
	if !strings.Contains(req.Input, "Explain the following r code") || !strings.HasSuffix(req.Input, "x <- c(1, 2)") {
		t.Fatalf("unexpected input %q", req.Input)
	}
	if _, err := buildExplainRequest("go", "package main", DefaultConfig().ExplainLanguages); KindOf(err) != KindInvalidInput {
		t.Fatalf("expected InvalidInput for unsupported language, got %v", err)
	}
}

func TestBuildRequests_AreFresh(t *testing.T) {
	a, _ := buildQARequest("doc", "q1")
	b, _ := buildQARequest("doc", "q2")
	if a.Input == b.Input {
		t.Fatalf("requests share input")
	}
}

func TestValidateMedia(t *testing.T) {
	def := DefaultConfig()

	m, err := ValidateMedia(MediaInput{MIMEType: "video/MP4; codecs=avc1", Data: []byte("x")}, def.MediaTypes, def.MaxMediaBytes)
	if err != nil {
		t.Fatalf("ValidateMedia error: %v", err)
	}
	if m.Kind != MediaKindVideo || m.MIMEType != "video/mp4" || m.Name != "lecture.mp4" {
		t.Fatalf("unexpected media %+v", m)
	}

	m, err = ValidateMedia(MediaInput{Name: "notes.pdf", MIMEType: "application/pdf", Data: []byte("%PDF")}, def.MediaTypes, def.MaxMediaBytes)
	if err != nil || m.Kind != MediaKindDocument || m.Name != "notes.pdf" {
		t.Fatalf("pdf: %+v, %v", m, err)
	}

	bad := []MediaInput{
		{MIMEType: "audio/ogg", Data: []byte("x")},
		{MIMEType: "video/mp4"},
		{MIMEType: "application/pdf", Kind: MediaKindVideo, Data: []byte("x")},
		{MIMEType: "video/webm", Data: make([]byte, 11)},
	}
	for _, in := range bad {
		if _, err := ValidateMedia(in, def.MediaTypes, 10); KindOf(err) != KindInvalidInput {
			t.Fatalf("%s (%d bytes): expected InvalidInput, got %v", in.MIMEType, in.Size(), err)
		}
	}
}

func TestSchemas_RequiredFields(t *testing.T) {
	tests := []struct {
		schema map[string]any
		want   []string
	}{
		{summarySchema, []string{"summary"}},
		{qaSchema, []string{"answer"}},
		{exerciseSchema, []string{"title", "description", "solution"}},
		{explanationSchema, []string{"explanation"}},
	}
	for _, tt := range tests {
		got, _ := tt.schema["required"].([]string)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Fatalf("required = %v, want %v", got, tt.want)
		}
	}

	props := exerciseSchema["properties"].(map[string]any)
	testCases := props["testCases"].(map[string]any)
	items := testCases["items"].(map[string]any)
	if items["type"] != "object" {
		t.Fatalf("testCases items should be objects, got %v", items["type"])
	}
}
