package mdtex

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// codeBlockKind tracks which environment is open between the start and
// end of a code block. Exactly one kind is active at a time.
type codeBlockKind int

const (
	codeNone codeBlockKind = iota
	codeListing
	codeRawLatex
	codeEquation
	codeDiagram
)

// translator walks the event stream produced by the structural parser
// and emits LaTeX. It owns all carry-over state between events.
type translator struct {
	source []byte
	out    strings.Builder
	text   *Table
	opts   Options
	log    *zap.SugaredLogger

	// Image alt text arrives as Text events between the image start and
	// end, so it is accumulated here instead of being emitted.
	insideImage  bool
	imageURL     string
	imageCaption strings.Builder

	codeblock codeBlockKind

	// Whether the next table cell is the first in its row, i.e. needs
	// no column separator before it.
	firstCell bool

	// Set by the add-contents heading class and consumed at heading
	// end to emit an explicit table-of-contents entry.
	addToContents bool
	headingText   strings.Builder
}

// translate parses the preprocessed Markdown and emits the LaTeX body.
// The parser is configured with all the extensions the translator
// understands: GFM tables and attribute lists on headings.
func (c *Converter) translate(source []byte, opts Options) (string, error) {

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	doc := md.Parser().Parse(text.NewReader(source))

	t := &translator{
		source: source,
		text:   c.text,
		opts:   opts,
		log:    c.log,
	}

	if err := ast.Walk(doc, t.visit); err != nil {
		return "", err
	}

	return t.out.String(), nil
}

// visit dispatches a single event. Event kinds not listed here are
// intentionally ignored: the translator is a partial mapping over the
// parser's full vocabulary.
func (t *translator) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {

	switch n := node.(type) {

	case *ast.Heading:
		t.heading(n, entering)

	case *ast.Paragraph:
		if !entering {
			// Two newlines delimit the paragraph
			t.out.WriteString("\n\n")
		}

	case *ast.Text:
		if entering {
			t.textEvent(n)
		}

	case *ast.Emphasis:
		cmd := `\textit{`
		if n.Level >= 2 {
			cmd = `\textbf{`
		}
		if entering {
			t.out.WriteString(cmd)
		} else {
			t.out.WriteByte('}')
		}

	case *ast.Link:
		if entering {
			fmt.Fprintf(&t.out, `\href{%s}{`, n.Destination)
		} else {
			t.out.WriteByte('}')
		}

	case *ast.Image:
		if entering {
			t.insideImage = true
			t.imageURL = string(n.Destination)
		} else {
			t.figure()
		}

	case *ast.List:
		env := "itemize"
		if n.IsOrdered() {
			env = "enumerate"
		}
		if entering {
			t.out.WriteString(`\begin{` + env + "}\n")
		} else {
			t.out.WriteString(`\end{` + env + "}\n")
		}

	case *ast.ListItem:
		if entering {
			t.out.WriteString(`\item `)
		} else {
			t.out.WriteByte('\n')
		}

	case *ast.FencedCodeBlock:
		if entering {
			t.openCodeBlock(fenceInfo(n, t.source), n.Lines())
		} else {
			t.closeCodeBlock()
		}

	case *ast.CodeBlock:
		// Indented code block, no fence info
		if entering {
			t.openCodeBlock("", n.Lines())
		} else {
			t.closeCodeBlock()
		}

	case *ast.CodeSpan:
		if entering {
			t.out.WriteString(`\texttt{`)
			t.out.WriteString(t.text.Apply(codeSpanText(n, t.source)))
			t.out.WriteByte('}')
			return ast.WalkSkipChildren, nil
		}

	case *east.Table:
		if entering {
			t.openTable(n.Alignments)
		} else {
			t.out.WriteString("\\end{tabularx}\n\n")
		}

	case *east.TableHeader:
		if entering {
			t.firstCell = true
		} else {
			t.out.WriteString(" \\\\ \\hline\n")
		}

	case *east.TableRow:
		if entering {
			t.firstCell = true
		} else {
			t.out.WriteString(" \\\\ \\hline\n")
		}

	case *east.TableCell:
		if entering {
			if !t.firstCell {
				t.out.WriteString(" & ")
			}
			t.firstCell = false
		}

	case *ast.ThematicBreak:
		if entering {
			t.out.WriteString("\\hrulefill\n")
		}
	}

	return ast.WalkContinue, nil
}

// textEvent handles a Text event according to the current state: caption
// accumulation inside images, verbatim passthrough inside code-like
// blocks, escaped prose otherwise.
func (t *translator) textEvent(n *ast.Text) {

	value := string(n.Segment.Value(t.source))

	switch {
	case t.insideImage:
		t.imageCaption.WriteString(value)
		if n.SoftLineBreak() || n.HardLineBreak() {
			t.imageCaption.WriteByte(' ')
		}
		return

	case t.codeblock != codeNone:
		// Code and math content must not be character-escaped
		t.out.WriteString(value)

	default:
		replaced := t.text.Apply(value)
		if t.addToContents {
			t.headingText.WriteString(replaced)
		}
		t.out.WriteString(replaced)
	}

	if n.HardLineBreak() {
		t.out.WriteString("\\\\\n")
	} else if n.SoftLineBreak() {
		t.out.WriteByte('\n')
	}
}

func (t *translator) heading(n *ast.Heading, entering bool) {

	if entering {
		var cmd string
		switch n.Level {
		case 1:
			cmd = "chapter"
		case 2:
			cmd = "section"
		case 3:
			cmd = "subsection"
		case 4:
			cmd = "subsubsection"
		case 5:
			cmd = "paragraph"
		default:
			cmd = "textbf"
		}

		classes := nodeClasses(n)
		if contains(classes, "unnumbered") {
			cmd += "*"
		}
		if contains(classes, "add-contents") {
			t.addToContents = true
			t.headingText.Reset()
		}

		t.out.WriteString(`\` + cmd + "{")
		return
	}

	t.out.WriteString("}\n")
	if t.addToContents {
		fmt.Fprintf(&t.out, "\\addcontentsline{toc}{chapter}{%s}\n", t.headingText.String())
		t.addToContents = false
		t.headingText.Reset()
	}
	t.out.WriteByte('\n')
}

// figure emits the figure environment for the image whose URL and
// caption were captured since the image start, and clears the state.
func (t *translator) figure() {

	fmt.Fprintf(&t.out, "\\begin{figure}[%s]\n", t.opts.FigurePlacement)
	fmt.Fprintf(&t.out, "\\centering\n\\includegraphics[width=%s\\textwidth]{%s}\n", t.opts.ImageWidth, t.imageURL)
	fmt.Fprintf(&t.out, "\\caption{%s}\n", t.imageCaption.String())
	fmt.Fprintf(&t.out, "\\label{fig:%s}\n", t.imageURL)
	t.out.WriteString("\\end{figure}\n")

	t.insideImage = false
	t.imageURL = ""
	t.imageCaption.Reset()
}

// openTable emits the tabularx opener with a column specification built
// from the per-column alignments. Unrecognized alignments fall back to
// centered columns.
func (t *translator) openTable(alignments []east.Alignment) {

	var spec strings.Builder
	for _, a := range alignments {
		switch a {
		case east.AlignLeft:
			spec.WriteString(`|>{\raggedright\arraybackslash}X`)
		case east.AlignRight:
			spec.WriteString(`|>{\raggedleft\arraybackslash}X`)
		default:
			spec.WriteString(`|>{\centering\arraybackslash}X`)
		}
	}
	spec.WriteByte('|')

	fmt.Fprintf(&t.out, "\\begin{tabularx}{\\textwidth}{%s} \\hline\n", spec.String())
}

// fenceInfo returns the full info string of a fenced code block, or ""
// for a bare fence.
func fenceInfo(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	return string(n.Info.Segment.Value(source))
}

// codeSpanText concatenates the text segments of an inline code span.
func codeSpanText(n *ast.CodeSpan, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if tn, ok := c.(*ast.Text); ok {
			sb.Write(tn.Segment.Value(source))
		}
	}
	return sb.String()
}

// nodeClasses returns the class attribute of a node split into its
// individual class names.
func nodeClasses(n ast.Node) []string {
	v, ok := n.AttributeString("class")
	if !ok {
		return nil
	}
	switch c := v.(type) {
	case []byte:
		return strings.Fields(string(c))
	case string:
		return strings.Fields(c)
	}
	return nil
}

func contains(set []string, name string) bool {
	for _, el := range set {
		if name == el {
			return true
		}
	}
	return false
}
