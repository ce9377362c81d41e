package scholar

import (
	"fmt"
	"strings"
)

// endpoint identifies which provider operation a request targets.
type endpoint int

const (
	endpointChat endpoint = iota
	endpointTranscription
)

func (e endpoint) String() string {
	switch e {
	case endpointChat:
		return "chat"
	case endpointTranscription:
		return "transcription"
	default:
		return fmt.Sprintf("endpoint(%d)", int(e))
	}
}

// providerRequest is a provider-agnostic instruction set produced by a builder.
// It is built fresh for every call.
type providerRequest struct {
	Capability Capability
	Endpoint   endpoint

	System string
	Input  string

	// Structured JSON response; set for every chat request.
	SchemaName     string
	ResponseSchema map[string]any

	// Media is set for transcription requests.
	Media *MediaInput
}

const jsonDirective = "Respond with a single JSON object that conforms to the following JSON schema. " +
	"Do not wrap it in markdown and do not add any prose outside the object.\nSchema: "

const (
	summarySystem = "You are an academic assistant that helps summarize lecture content. " +
		"Extract key points, identify any code snippets, list the topics covered, propose review questions " +
		"and learning objectives, and provide clear explanations."

	qaSystem = "You are an academic assistant that answers questions about a document supplied by a student. " +
		"Answer only from the document. Quote the passages that support the answer in relevantSections " +
		"and rate your confidence between 0 and 1."

	exerciseSystem = "You are a programming instructor who writes practice exercises. " +
		"Create one self-contained exercise with instructions, starter code, a complete solution, " +
		"progressive hints and test cases."

	explainSystem = "You are a patient programming tutor. Explain what the supplied code does for a student, " +
		"name its key components, suggest improvements and list common use cases."

	transcribeVideoPrompt    = "Transcribe the spoken content of this lecture recording verbatim. Return only the transcript text."
	transcribeDocumentPrompt = "Extract the complete text of this lecture document in reading order. Return only the extracted text."
)

func structuredSystem(instruction string, schema map[string]any) string {
	return instruction + "\n\n" + jsonDirective + schemaJSON(schema)
}

// buildTranscriptionRequest expects media already checked by ValidateMedia.
func buildTranscriptionRequest(media MediaInput) providerRequest {
	prompt := transcribeVideoPrompt
	if media.Kind == MediaKindDocument {
		prompt = transcribeDocumentPrompt
	}
	return providerRequest{
		Capability: CapabilityTranscribe,
		Endpoint:   endpointTranscription,
		Input:      prompt,
		Media:      &media,
	}
}

func buildSummaryRequest(transcript string) (providerRequest, error) {
	if strings.TrimSpace(transcript) == "" {
		return providerRequest{}, invalidInput("transcript must not be empty")
	}
	return providerRequest{
		Capability:     CapabilitySummarize,
		Endpoint:       endpointChat,
		System:         structuredSystem(summarySystem, summarySchema),
		Input:          "Please summarize the following lecture transcription: " + transcript,
		SchemaName:     "lecture_summary",
		ResponseSchema: summarySchema,
	}, nil
}

func buildQARequest(document, question string) (providerRequest, error) {
	if strings.TrimSpace(document) == "" {
		return providerRequest{}, invalidInput("document must not be empty")
	}
	if strings.TrimSpace(question) == "" {
		return providerRequest{}, invalidInput("question must not be empty")
	}
	return providerRequest{
		Capability:     CapabilityAnswer,
		Endpoint:       endpointChat,
		System:         structuredSystem(qaSystem, qaSchema),
		Input:          "Document:\n" + document + "\n\nQuestion: " + question,
		SchemaName:     "document_answer",
		ResponseSchema: qaSchema,
	}, nil
}

// exerciseOptions are the enumerated sets exercise parameters must come from.
type exerciseOptions struct {
	Languages    []string
	Difficulties []string
	Topics       []string
}

func buildExerciseRequest(language, difficulty, topic string, opts exerciseOptions) (providerRequest, error) {
	lang, ok := matchChoice(language, opts.Languages)
	if !ok {
		return providerRequest{}, invalidInput("unsupported language %q (allowed: %s)", language, strings.Join(opts.Languages, ", "))
	}
	diff, ok := matchChoice(difficulty, opts.Difficulties)
	if !ok {
		return providerRequest{}, invalidInput("unsupported difficulty %q (allowed: %s)", difficulty, strings.Join(opts.Difficulties, ", "))
	}
	top, ok := matchChoice(topic, opts.Topics)
	if !ok {
		return providerRequest{}, invalidInput("unsupported topic %q (allowed: %s)", topic, strings.Join(opts.Topics, ", "))
	}
	return providerRequest{
		Capability: CapabilityExercise,
		Endpoint:   endpointChat,
		System:     structuredSystem(exerciseSystem, exerciseSchema),
		Input: fmt.Sprintf("Create a %s programming exercise in %s about %s.",
			diff, lang, top),
		SchemaName:     "programming_exercise",
		ResponseSchema: exerciseSchema,
	}, nil
}

func buildExplainRequest(language, code string, languages []string) (providerRequest, error) {
	lang, ok := matchChoice(language, languages)
	if !ok {
		return providerRequest{}, invalidInput("unsupported language %q (allowed: %s)", language, strings.Join(languages, ", "))
	}
	if strings.TrimSpace(code) == "" {
		return providerRequest{}, invalidInput("code must not be empty")
	}
	return providerRequest{
		Capability:     CapabilityExplain,
		Endpoint:       endpointChat,
		System:         structuredSystem(explainSystem, explanationSchema),
		Input:          fmt.Sprintf("Explain the following %s code:\n\n%s", lang, code),
		SchemaName:     "code_explanation",
		ResponseSchema: explanationSchema,
	}, nil
}

// matchChoice returns the canonical entry of allowed equal to value, ignoring case and surrounding space.
func matchChoice(value string, allowed []string) (string, bool) {
	v := strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a, true
		}
	}
	return "", false
}

// ValidateMedia checks media against the configured types and size limit and fills in Kind.
func ValidateMedia(media MediaInput, mediaTypes map[string]MediaKind, maxBytes int64) (MediaInput, error) {
	mt := strings.ToLower(strings.TrimSpace(media.MIMEType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	kind, ok := mediaTypes[mt]
	if !ok {
		return media, invalidInput("unsupported media type %q", media.MIMEType)
	}
	if media.Kind != "" && media.Kind != kind {
		return media, invalidInput("media type %s is a %s, not a %s", mt, kind, media.Kind)
	}
	if media.Size() == 0 {
		return media, invalidInput("media file is empty")
	}
	if media.Size() > maxBytes {
		return media, invalidInput("file size %d exceeds the %d byte limit", media.Size(), maxBytes)
	}
	media.MIMEType = mt
	media.Kind = kind
	if strings.TrimSpace(media.Name) == "" {
		media.Name = defaultMediaName(mt)
	}
	return media, nil
}

func defaultMediaName(mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return "lecture.mp4"
	case "video/quicktime":
		return "lecture.mov"
	case "video/webm":
		return "lecture.webm"
	case "application/pdf":
		return "lecture.pdf"
	default:
		return "lecture"
	}
}
