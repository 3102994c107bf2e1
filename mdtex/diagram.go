package mdtex

import (
	"bytes"
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// A DiagramRenderer turns diagram source text into an image file and
// returns the path to reference from the generated figure environment.
type DiagramRenderer interface {
	Render(source []byte) (string, error)
}

// diagramFigure renders a diagram fence through the installed renderer
// and emits a figure environment referencing the generated image. A
// rendering failure degrades the block to a plain listing so its source
// is not lost.
func (t *translator) diagramFigure(lines *text.Segments) {

	var src bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		src.Write(seg.Value(t.source))
	}

	path, err := t.opts.Diagrams.Render(src.Bytes())
	if err != nil {
		t.log.Errorw("diagram rendering failed", "err", err)
		t.codeblock = codeListing
		t.out.WriteString("\\begin{lstlisting}\n")
		t.out.Write(src.Bytes())
		return
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fmt.Fprintf(&t.out, "\\begin{figure}[%s]\n", t.opts.FigurePlacement)
	fmt.Fprintf(&t.out, "\\centering\n\\includesvg[width=%s\\textwidth]{%s}\n", t.opts.ImageWidth, path)
	fmt.Fprintf(&t.out, "\\label{fig:%s}\n", name)
	t.out.WriteString("\\end{figure}\n")
}

// D2Renderer renders d2 diagram sources to SVG files with the embedded
// D2 compiler. Generated files are named by the hash of their source so
// an unchanged diagram is never rendered twice.
type D2Renderer struct {
	assetsDir string
	log       *zap.SugaredLogger
}

func NewD2Renderer(assetsDir string, logger *zap.SugaredLogger) *D2Renderer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &D2Renderer{assetsDir: assetsDir, log: logger}
}

func (r *D2Renderer) Render(source []byte) (string, error) {

	hh := md5.Sum(source)
	fileName := filepath.Join(r.assetsDir, fmt.Sprintf("d2_%x.svg", hh))

	// A modification in the source produces a new file name, so an
	// existing file is always current
	if _, err := os.Stat(fileName); err == nil {
		r.log.Debugw("diagram cached", "file", fileName)
		return fileName, nil
	}

	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return "", err
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(context.Background(), string(source), &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return "", err
	}

	body, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.assetsDir, 0775); err != nil {
		return "", err
	}
	if err := os.WriteFile(fileName, body, 0664); err != nil {
		return "", err
	}

	r.log.Infow("diagram generated", "file", fileName)
	return fileName, nil
}
