package scholar

// Provider identifies which backend serves the requests.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGoogle Provider = "google"
)

// Capability names one orchestrated operation.
type Capability string

const (
	CapabilityTranscribe Capability = "transcribe"
	CapabilitySummarize  Capability = "summarize"
	CapabilityAnswer     Capability = "answer_question"
	CapabilityExercise   Capability = "generate_exercise"
	CapabilityExplain    Capability = "explain_code"
)

// MediaKind is the declared kind of an uploaded file.
type MediaKind string

const (
	MediaKindVideo    MediaKind = "video"
	MediaKindDocument MediaKind = "document"
)

// MediaInput is a lecture file handed to Transcribe.
type MediaInput struct {
	// Name is the original file name; used as the multipart file name.
	Name string
	// MIMEType is the declared content type, e.g. "video/mp4".
	MIMEType string
	// Kind is derived from MIMEType when empty.
	Kind MediaKind
	Data []byte
}

// Size returns the payload size in bytes.
func (m MediaInput) Size() int64 {
	return int64(len(m.Data))
}

// CodeSnippet is a piece of code found in a lecture.
type CodeSnippet struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
	Language    string `json:"language"`
}

// SummaryResult is the structured lecture summary.
// Sequence fields are never nil.
type SummaryResult struct {
	Summary            string        `json:"summary"`
	KeyPoints          []string      `json:"keyPoints"`
	CodeSnippets       []CodeSnippet `json:"codeSnippets"`
	Topics             []string      `json:"topics"`
	Questions          []string      `json:"questions"`
	LearningObjectives []string      `json:"learningObjectives"`
}

// QAResult is an answer to a question about a document.
type QAResult struct {
	Answer           string   `json:"answer"`
	RelevantSections []string `json:"relevantSections"`
	Confidence       float64  `json:"confidence"`
}

// TestCase is one input/expected output pair of an exercise.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

// Exercise is a generated programming exercise.
type Exercise struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Instructions []string   `json:"instructions"`
	StarterCode  string     `json:"starterCode"`
	Solution     string     `json:"solution"`
	Hints        []string   `json:"hints"`
	TestCases    []TestCase `json:"testCases"`
}

// CodeExplanation is a structured explanation of a code fragment.
type CodeExplanation struct {
	Explanation   string   `json:"explanation"`
	KeyComponents []string `json:"keyComponents"`
	Improvements  []string `json:"improvements"`
	UseCases      []string `json:"useCases"`
}
