package anchor

import (
	"encoding/json"
	"sync"

	"github.com/mitchellh/mapstructure"

	"weft/internal/geom"
	"weft/internal/graph"
)

// DefaultTopPaneHeight is the image editor's image pane height when the
// payload does not say otherwise.
const DefaultTopPaneHeight = 330.0

// ConceptsMode is the tri-state size of the sequence generator's concept pane.
type ConceptsMode string

const (
	ConceptsCollapsed ConceptsMode = "collapsed"
	ConceptsNormal    ConceptsMode = "normal"
	ConceptsExpanded  ConceptsMode = "expanded"
)

// Layout is the decoded, layout-relevant part of a node payload. Exactly one
// concrete type exists per node kind that has payload-driven geometry.
type Layout interface {
	layout()
}

// DefaultLayout is used by node kinds whose geometry ignores the payload.
type DefaultLayout struct{}

// RerouteLayout flips the dot's input and output sides.
type RerouteLayout struct {
	Direction string `mapstructure:"direction"`
}

// Reversed reports whether wires flow right to left through the dot.
func (l RerouteLayout) Reversed() bool { return l.Direction == "RL" }

// ImageEditorLayout describes the editor's resizable image pane and the
// sequence sub-modes that change its image ports.
type ImageEditorLayout struct {
	TopPaneHeight         float64 `mapstructure:"topPaneHeight"`
	SequenceMode          bool    `mapstructure:"isSequenceMode"`
	SequentialCombination bool    `mapstructure:"isSequentialCombinationMode"`
	EditingWithPrompts    bool    `mapstructure:"isSequentialEditingWithPrompts"`
}

// Combination reports whether the image input is split into A and B ports.
func (l ImageEditorLayout) Combination() bool {
	return l.SequenceMode && l.SequentialCombination && !l.EditingWithPrompts
}

// PromptsOnly reports whether only the B image port is exposed.
func (l ImageEditorLayout) PromptsOnly() bool {
	return l.SequenceMode && l.EditingWithPrompts
}

// SequenceGeneratorLayout carries the concept pane mode.
type SequenceGeneratorLayout struct {
	ConceptsMode ConceptsMode `mapstructure:"conceptsMode"`
}

// PromptAnalyzerLayout carries the character lists whose lengths decide how
// many character outputs the analyzer exposes.
type PromptAnalyzerLayout struct {
	Characters         []any `mapstructure:"characters"`
	DetailedCharacters []any `mapstructure:"detailedCharacters"`
}

// CharacterCount is the number of per-character output ports.
func (l PromptAnalyzerLayout) CharacterCount() int {
	return max(len(l.Characters), len(l.DetailedCharacters))
}

func (DefaultLayout) layout()           {}
func (RerouteLayout) layout()           {}
func (ImageEditorLayout) layout()       {}
func (SequenceGeneratorLayout) layout() {}
func (PromptAnalyzerLayout) layout()    {}

// defaultLayout returns the layout a node of type t has with an empty or
// unreadable payload.
func defaultLayout(t graph.NodeType) Layout {
	switch t {
	case graph.TypeRerouteDot:
		return RerouteLayout{Direction: "LR"}
	case graph.TypeImageEditor:
		return ImageEditorLayout{TopPaneHeight: DefaultTopPaneHeight}
	case graph.TypeImageSequenceGenerator:
		return SequenceGeneratorLayout{ConceptsMode: ConceptsNormal}
	case graph.TypePromptAnalyzer:
		return PromptAnalyzerLayout{}
	default:
		return DefaultLayout{}
	}
}

// Decode extracts the layout of a node of type t from its payload. It never
// fails: missing, empty or malformed payloads yield the type default, and
// loosely typed values ("330", 1) are coerced where possible.
func Decode(t graph.NodeType, value string) Layout {
	def := defaultLayout(t)
	if _, ok := def.(DefaultLayout); ok || value == "" {
		return def
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(value), &raw); err != nil || raw == nil {
		return def
	}

	switch d := def.(type) {
	case RerouteLayout:
		if !weakDecode(raw, &d) {
			return def
		}
		return d
	case ImageEditorLayout:
		if !weakDecode(raw, &d) {
			return def
		}
		if !geom.IsFinite(d.TopPaneHeight) || d.TopPaneHeight <= 0 {
			d.TopPaneHeight = DefaultTopPaneHeight
		}
		return d
	case SequenceGeneratorLayout:
		if !weakDecode(raw, &d) {
			return def
		}
		switch d.ConceptsMode {
		case ConceptsCollapsed, ConceptsNormal, ConceptsExpanded:
		default:
			d.ConceptsMode = ConceptsNormal
		}
		return d
	case PromptAnalyzerLayout:
		if !weakDecode(raw, &d) {
			return def
		}
		return d
	}
	return def
}

func weakDecode(raw map[string]any, out any) bool {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return false
	}
	return dec.Decode(raw) == nil
}

type cacheKey struct {
	t     graph.NodeType
	value string
}

// Cache memoizes Decode on the node type and payload. Payloads change far
// less often than frames are drawn.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]Layout
	limit   int
}

// NewCache returns a cache holding at most limit layouts. When full it is
// emptied and refilled.
func NewCache(limit int) *Cache {
	if limit <= 0 {
		limit = 1024
	}
	return &Cache{entries: make(map[cacheKey]Layout), limit: limit}
}

// Layout returns the decoded layout for t and value.
func (c *Cache) Layout(t graph.NodeType, value string) Layout {
	if _, ok := defaultLayout(t).(DefaultLayout); ok {
		return DefaultLayout{}
	}
	k := cacheKey{t: t, value: value}
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.entries[k]; ok {
		return l
	}
	l := Decode(t, value)
	if len(c.entries) >= c.limit {
		c.entries = make(map[cacheKey]Layout)
	}
	c.entries[k] = l
	return l
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
