package scholarhttp

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type CredentialStatusResponse struct {
	Present bool `json:"present"`
}

type SetCredentialRequest struct {
	Token string `json:"token"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

type SummarizeRequest struct {
	Transcript string `json:"transcript"`
}

// AnswerRequest carries the document either as plain text or as HTML.
type AnswerRequest struct {
	Document     string `json:"document"`
	DocumentHTML string `json:"documentHtml"`
	Question     string `json:"question"`
}

type ExerciseRequest struct {
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

type ExplainRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}
