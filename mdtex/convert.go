package mdtex

import (
	"github.com/hesusruiz/vcutils/yaml"
	"go.uber.org/zap"
)

// Options are the per-document conversion settings, resolved from the
// configuration file and the document's own front matter.
type Options struct {

	// Width of included images as a fraction of \textwidth.
	ImageWidth string

	// Placement specifier for figure environments, e.g. "htbp".
	FigurePlacement string

	// Emit [language=...] on listing environments when the language
	// can be resolved.
	CodeLanguage bool

	// Renderer for diagram fences. When nil, diagram fences degrade to
	// plain listings.
	Diagrams DiagramRenderer
}

// Converter turns Markdown source into LaTeX body text.
// A Converter is safe to reuse across documents; it carries no
// per-document state.
type Converter struct {
	log      *zap.SugaredLogger
	config   *yaml.YAML
	pre      *Table
	text     *Table
	diagrams DiagramRenderer
}

// New creates a Converter. Both the config and the logger may be nil.
func New(config *yaml.YAML, logger *zap.SugaredLogger) *Converter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Converter{
		log:    logger,
		config: config,
		pre:    PreTable(),
		text:   TextTable(),
	}
}

// SetDiagramRenderer installs the renderer used for diagram fences.
func (c *Converter) SetDiagramRenderer(r DiagramRenderer) {
	c.diagrams = r
}

// Convert runs the full pipeline on a Markdown document and returns the
// LaTeX body text. The pipeline is total: malformed constructs degrade
// to passthrough or omission, they never produce an error. An error is
// only possible from a diagram renderer or the underlying parser, and
// both are reported, not panicked.
func (c *Converter) Convert(source []byte) ([]byte, error) {

	preprocessed, meta := Preprocess(string(source), c.pre)
	if meta != nil {
		c.log.Debugw("front matter found", "keys", "mdtex.*")
	}

	latex, err := c.translate([]byte(preprocessed), c.options(meta))
	if err != nil {
		return nil, err
	}

	repaired := Postprocess(latex, c.text)

	return []byte(repaired), nil
}

// options resolves the conversion settings, with the document front
// matter taking precedence over the configuration file.
func (c *Converter) options(meta *yaml.YAML) Options {

	str := func(key string, def string) string {
		if meta != nil {
			if v := meta.String(key, ""); len(v) > 0 {
				return v
			}
		}
		if c.config != nil {
			if v := c.config.String(key, ""); len(v) > 0 {
				return v
			}
		}
		return def
	}

	boolean := func(key string) bool {
		if meta != nil && meta.Bool(key) {
			return true
		}
		return c.config != nil && c.config.Bool(key)
	}

	return Options{
		ImageWidth:      str("mdtex.imageWidth", "0.8"),
		FigurePlacement: str("mdtex.figurePlacement", "htbp"),
		CodeLanguage:    !boolean("mdtex.plainListings"),
		Diagrams:        c.diagrams,
	}
}
