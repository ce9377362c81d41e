package scholar

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements end the running paragraph before and after their content.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "details": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "summary": true,
	"table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

// DocumentTextFromHTML extracts readable text from an HTML document so it can be passed
// to AnswerQuestion. Block elements become paragraphs; scripts and styles are dropped.
func DocumentTextFromHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", &Failure{Kind: KindInvalidInput, Message: "document is not valid HTML", Err: err}
	}
	doc.Find("script, style, noscript, template, head").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var w textWalker
	w.walk(root.Contents())
	w.flush()

	text := strings.Join(w.blocks, "\n\n")
	if text == "" {
		return "", invalidInput("document contains no text")
	}
	return text, nil
}

type textWalker struct {
	buf    strings.Builder
	blocks []string
}

func (w *textWalker) walk(nodes *goquery.Selection) {
	nodes.Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); {
		case name == "#text":
			w.buf.WriteString(s.Text())
		case name == "#comment":
		case blockElements[name]:
			w.flush()
			w.walk(s.Contents())
			w.flush()
		default:
			w.walk(s.Contents())
		}
	})
}

func (w *textWalker) flush() {
	if text := collapseSpace(w.buf.String()); text != "" {
		w.blocks = append(w.blocks, text)
	}
	w.buf.Reset()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
