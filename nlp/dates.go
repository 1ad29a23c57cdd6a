package nlp

import (
	"strings"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// WhenDateParser understands English date expressions such as "tomorrow",
// "next friday" or "March 5", relative to the current time.
type WhenDateParser struct {
	parser *when.Parser
	now    func() time.Time
}

func NewWhenDateParser() *WhenDateParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenDateParser{parser: w, now: time.Now}
}

// WithClock fixes the reference time used for relative expressions.
func (p *WhenDateParser) WithClock(now func() time.Time) *WhenDateParser {
	p.now = now
	return p
}

func (p *WhenDateParser) Parse(expr string) (time.Time, bool) {
	r, err := p.parser.Parse(expr, p.now())
	if err != nil || r == nil {
		return time.Time{}, false
	}
	return r.Time, true
}

// Spans returns every date expression in text, in order of appearance.
// Expressions closer than the parser's match distance come back as one span,
// which keeps "March 5 at 10am" together.
func (p *WhenDateParser) Spans(text string) []string {
	var spans []string
	base := p.now()

	rest := text
	for strings.TrimSpace(rest) != "" {
		r, err := p.parser.Parse(rest, base)
		if err != nil || r == nil || r.Text == "" {
			// Nothing applied at the front of rest; later words may still hold
			// a date.
			rest = skipWord(rest)
			continue
		}
		if span := strings.TrimSpace(r.Text); span != "" {
			spans = append(spans, span)
		}

		next := r.Index + len(r.Text)
		if next <= 0 || next > len(rest) {
			break
		}
		rest = rest[next:]
	}

	return spans
}

// skipWord drops leading space and the first word of s.
func skipWord(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return s[i:]
}
