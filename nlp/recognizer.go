package nlp

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jdkato/prose/v2"
)

// warmupText is run once at load time to materialize the default model.
const warmupText = "Flights from Paris to Tokyo."

// prose only closes an entity when a later token falls outside it, so text
// handed to the model always ends with this token.
const entityTerminator = " ."

// modelFiles must all exist under <modelPath>/Maxent.
var modelFiles = []string{"mapping.gob", "weights.gob", "labels.gob"}

// ProseRecognizer tags places with a prose NER model and dates with the
// when rule set. The model is loaded once and only read afterwards, so one
// instance serves every request.
type ProseRecognizer struct {
	model *prose.Model
	dates *WhenDateParser
}

// LoadRecognizer loads the NER model. An empty modelPath selects the model
// embedded in prose; otherwise the directory must hold a model saved with
// prose's Model.Write.
func LoadRecognizer(modelPath string, dates *WhenDateParser, log *slog.Logger) (*ProseRecognizer, error) {
	start := time.Now()

	var model *prose.Model
	if modelPath != "" {
		var err error
		if model, err = modelFromDisk(modelPath); err != nil {
			return nil, err
		}
	} else {
		doc, err := prose.NewDocument(warmupText, prose.WithSegmentation(false))
		if err != nil {
			return nil, fmt.Errorf("loading default ner model: %w", err)
		}
		model = doc.Model
	}

	log.Info("NER model loaded",
		slog.String("path", modelPath),
		slog.Duration("took", time.Since(start)),
	)

	return &ProseRecognizer{model: model, dates: dates}, nil
}

// modelFromDisk turns the panics prose raises on missing or corrupt model
// files into errors.
func modelFromDisk(modelPath string) (model *prose.Model, err error) {
	for _, name := range modelFiles {
		if _, err := os.Stat(filepath.Join(modelPath, "Maxent", name)); err != nil {
			return nil, fmt.Errorf("ner model %q: %w", modelPath, err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("ner model %q: %v", modelPath, r)
		}
	}()

	return prose.ModelFromDisk(modelPath), nil
}

// Loaded reports whether a model is available for tagging.
func (r *ProseRecognizer) Loaded() bool {
	return r != nil && r.model != nil
}

// Entities returns places in text order followed by date expressions in text
// order. Relative order between the two kinds does not matter to Extract.
func (r *ProseRecognizer) Entities(text string) []Entity {
	var entities []Entity

	doc, err := prose.NewDocument(strings.TrimSpace(text)+entityTerminator,
		prose.WithSegmentation(false),
		prose.UsingModel(r.model),
	)
	if err == nil {
		for _, ent := range doc.Entities() {
			if ent.Label == LabelGPE {
				entities = append(entities, Entity{Text: ent.Text, Label: LabelGPE})
			}
		}
	}

	for _, span := range r.dates.Spans(text) {
		entities = append(entities, Entity{Text: span, Label: LabelDate})
	}

	return entities
}
