package epub

import (
	"bytes"
	"fmt"
	"html"

	"github.com/PuerkitoBio/goquery"
)

// Part is one markup file inside the archive. Its paragraph elements are the
// document's text units; they exist only as positions within the part's
// markup, so all access goes through a parse-visit-serialize cycle.
type Part struct {
	entry *entry
}

// Name returns the part's path within the archive.
func (p *Part) Name() string {
	return p.entry.name
}

// ParagraphCount returns the number of <p> elements in the part.
func (p *Part) ParagraphCount() (int, error) {
	doc, err := p.parse()
	if err != nil {
		return 0, err
	}
	return doc.Find("p").Length(), nil
}

// TransformParagraphs visits every <p> element in document order with its
// plain text. When visit returns replace=true the element's content is
// overwritten with the returned markup fragment. The part's stored bytes are
// re-serialized only when at least one paragraph was replaced; a visit-only
// pass leaves them untouched.
func (p *Part) TransformParagraphs(visit func(text string) (markup string, replace bool)) error {
	doc, err := p.parse()
	if err != nil {
		return err
	}

	mutated := false
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		markup, replace := visit(s.Text())
		if replace {
			s.SetHtml(markup)
			mutated = true
		}
	})
	if !mutated {
		return nil
	}

	out, err := doc.Html()
	if err != nil {
		return fmt.Errorf("serializing %s: %w", p.entry.name, err)
	}
	p.entry.data = []byte(out)
	return nil
}

func (p *Part) parse() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.entry.data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.entry.name, err)
	}
	return doc, nil
}

// EscapeText escapes plain text for inclusion in a markup fragment.
func EscapeText(text string) string {
	return html.EscapeString(text)
}
