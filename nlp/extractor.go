// Package nlp turns free-text chat messages into travel intent.
package nlp

import "time"

// Entity labels understood by the extractor.
const (
	LabelGPE  = "GPE"
	LabelDate = "DATE"
)

const dateLayout = "2006-01-02"

// Entity is a recognized span of text and its label.
type Entity struct {
	Text  string
	Label string
}

// Recognizer finds labelled entities in text. Implementations must be safe
// for concurrent use.
type Recognizer interface {
	Entities(text string) []Entity
}

// DateParser turns a date expression into a calendar date.
type DateParser interface {
	Parse(expr string) (time.Time, bool)
}

// TravelIntent is what a single message says about a trip. Unset fields
// encode as null.
type TravelIntent struct {
	Departure   *string `json:"departure"`
	Destination *string `json:"destination"`
	Date        *string `json:"date"`
}

// HasRoute reports whether both cities were found.
func (t TravelIntent) HasRoute() bool {
	return t.Departure != nil && t.Destination != nil
}

// Complete reports whether the intent is enough to search flights.
func (t TravelIntent) Complete() bool {
	return t.HasRoute() && t.Date != nil
}

type Extractor struct {
	recognizer Recognizer
	dates      DateParser
}

func NewExtractor(recognizer Recognizer, dates DateParser) *Extractor {
	return &Extractor{recognizer: recognizer, dates: dates}
}

// Extract assigns the first place mentioned to Departure and the second to
// Destination; any further places are ignored. Every date expression is
// parsed in order and the last one that parses wins. It never fails: a field
// that could not be filled stays nil.
func (e *Extractor) Extract(text string) TravelIntent {
	var intent TravelIntent

	for _, ent := range e.recognizer.Entities(text) {
		switch ent.Label {
		case LabelGPE:
			place := ent.Text
			switch {
			case intent.Departure == nil:
				intent.Departure = &place
			case intent.Destination == nil:
				intent.Destination = &place
			}
		case LabelDate:
			parsed, ok := e.dates.Parse(ent.Text)
			if !ok {
				continue
			}
			date := parsed.Format(dateLayout)
			intent.Date = &date
		}
	}

	return intent
}
