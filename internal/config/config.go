// Package config owns the only textual format this module understands for
// requests: a YAML document naming the item's slots, stats, scroll
// catalog, and goal. Translating that document into an engine.Request,
// including validation, happens here so internal/engine never has to know
// anything about text at all.
package config

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/capreolina/scroll-strategist/internal/engine"
	"github.com/capreolina/scroll-strategist/internal/scroll"
	"github.com/capreolina/scroll-strategist/internal/stats"
)

// ScrollDocument is the on-disk shape of one catalog entry.
type ScrollDocument struct {
	Percent float64 `yaml:"percent"`
	Dark    bool    `yaml:"dark"`
	Cost    string  `yaml:"cost"`
	Delta   []int64 `yaml:"delta"`
}

// costValue parses Cost as a float, accepting the YAML 1.1 positive infinity
// token (".inf", also "+.inf") that gopkg.in/yaml.v3 itself already
// understands, plus the bare word "inf" as a convenience alias for the same
// thing. The negative token "-.inf" is not accepted and yields an error. An empty
// Cost defaults to 0, matching yaml.v3's zero-value behavior for a field
// the document simply omits.
func (d ScrollDocument) costValue() (float64, error) {
	switch d.Cost {
	case "", "0":
		if d.Cost == "" {
			return 0, nil
		}
	case ".inf", "+.inf", "inf", "+inf", "Inf", "+Inf":
		return math.Inf(1), nil
	}

	var f float64
	if _, err := fmt.Sscanf(d.Cost, "%g", &f); err != nil {
		return 0, fmt.Errorf("cost %q: %w", d.Cost, err)
	}
	return f, nil
}

// Document is the on-disk YAML shape consumed by Load. percent may be given
// as an integer 0-100 or a real already in [0,1]; see normalizePercent.
type Document struct {
	Slots   int              `yaml:"slots"`
	Stats   []int64          `yaml:"stats"`
	Goal    []int64          `yaml:"goal"`
	Scrolls []ScrollDocument `yaml:"scrolls"`
}

// Load resolves path with a scoped viper instance (no process-global
// config state, so Load is safe to call concurrently from internal/batch),
// reads it as YAML, and converts the result into a validated
// engine.Request.
func Load(path string) (*engine.Request, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	// Re-marshal viper's generic map back to YAML bytes and decode into the
	// typed Document, the same two-stage "outer config resolves a path,
	// inner yaml.Unmarshal produces the typed struct" idiom used elsewhere
	// in this codebase's ancestry for loading structured parameter files.
	raw, err := yaml.Marshal(vp.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("config: re-marshal %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return FromDocument(&doc)
}

// FromDocument converts a parsed Document into a validated engine.Request.
// Exposed separately from Load so callers that already have a Document
// in hand (e.g. a test fixture, or a document assembled programmatically)
// don't need to round-trip through a file.
func FromDocument(doc *Document) (*engine.Request, error) {
	scrolls := make([]scroll.Kind, len(doc.Scrolls))
	for i, sd := range doc.Scrolls {
		cost, err := sd.costValue()
		if err != nil {
			return nil, fmt.Errorf("config: scrolls[%d]: %w", i, err)
		}
		scrolls[i] = scroll.Kind{
			Percent: normalizePercent(sd.Percent),
			Dark:    sd.Dark,
			Cost:    cost,
			Delta:   stats.New(sd.Delta...),
		}
	}

	req := &engine.Request{
		Slots:   doc.Slots,
		Stats:   stats.New(doc.Stats...),
		Scrolls: scrolls,
		Goal:    stats.New(doc.Goal...),
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// normalizePercent treats any value greater than 1 as a 0-100 percent and
// divides by 100; a value of 1 or less is already a probability in [0,1].
// This means "percent: 1" is read as certainty (p=1.0), not 1%: ordinary
// low-probability scrolls should be written as their decimal probability
// (e.g. "percent: 0.01") rather than "percent: 1".
func normalizePercent(p float64) float64 {
	if p > 1 {
		return p / 100
	}
	return p
}
