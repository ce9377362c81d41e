package scholar

import (
	"strings"
	"testing"
)

func TestDocumentTextFromHTML(t *testing.T) {
	html := `<html><head><title>ignored</title><style>p{color:red}</style></head>
<body>
  <h1>Week 3:   Recursion</h1>
  <script>track()</script>
  <p>A function that calls
     itself.</p>
  <ul><li><p>Base case</p></li><li>Recursive case</li></ul>
</body></html>`

	got, err := DocumentTextFromHTML(strings.NewReader(html))
	if err != nil {
		t.Fatalf("DocumentTextFromHTML error: %v", err)
	}
	want := "Week 3: Recursion\n\nA function that calls itself.\n\nBase case\n\nRecursive case"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestDocumentTextFromHTML_PlainBody(t *testing.T) {
	got, err := DocumentTextFromHTML(strings.NewReader("<div>just   text</div>"))
	if err != nil || got != "just text" {
		t.Fatalf("got %q, %v", got, err)
	}

	_, err = DocumentTextFromHTML(strings.NewReader("<script>x()</script>"))
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("expected InvalidInput for empty document, got %v", err)
	}
}

func TestDocumentTextFromHTML_TextOutsideParagraphs(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"div next to p", `<body><div>The answer is 42.</div><p>Intro</p></body>`, "The answer is 42.\n\nIntro"},
		{"section and span", `<section><span>Loops</span> repeat <em>work</em>.</section><p>Next</p>`, "Loops repeat work.\n\nNext"},
		{"bare body text", `<body>Before<p>Middle</p>after <b>bold</b></body>`, "Before\n\nMiddle\n\nafter bold"},
		{"split word", `<p>recur<b>sion</b></p>`, "recursion"},
		{"comment", `<div>a<!-- hidden -->b</div>`, "ab"},
		{"line break", `<p>one<br>two</p>`, "one\n\ntwo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DocumentTextFromHTML(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("DocumentTextFromHTML error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("text = %q, want %q", got, tt.want)
			}
		})
	}
}
