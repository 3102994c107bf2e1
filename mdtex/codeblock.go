package mdtex

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/text"
)

// equationFence matches the fence-info token produced by the
// preprocessor for display-equation blocks.
var equationFence = regexp.MustCompile(`block_equation\{(.*?)\}`)

// openCodeBlock inspects the fence info and opens the matching
// environment. The info string is split into whitespace-separated
// tokens:
//
//   - a block_equation{<label>} token opens a numbered equation, with a
//     label command when the label is non-empty;
//   - the token pair "latex" and "raw" passes the body through verbatim
//     with no wrapper at all;
//   - a "d2" token is compiled to a diagram image when a renderer is
//     installed;
//   - anything else opens a listing.
//
// The body is written here because the parser exposes it as source
// lines, not as child events.
func (t *translator) openCodeBlock(info string, lines *text.Segments) {

	tokens := strings.Fields(info)

	for _, token := range tokens {
		if m := equationFence.FindStringSubmatch(token); m != nil {
			t.codeblock = codeEquation
			t.out.WriteString("\\begin{equation}\n")
			if len(m[1]) > 0 {
				fmt.Fprintf(&t.out, "\\label{eq:%s}\n", m[1])
			}
			t.writeLines(lines)
			return
		}
	}

	if contains(tokens, "latex") && contains(tokens, "raw") {
		t.codeblock = codeRawLatex
		t.writeLines(lines)
		return
	}

	if contains(tokens, "d2") && t.opts.Diagrams != nil {
		t.codeblock = codeDiagram
		t.diagramFigure(lines)
		return
	}

	t.codeblock = codeListing
	lang := ""
	if t.opts.CodeLanguage {
		lang = t.listingLanguage(tokens, lines)
	}
	if len(lang) > 0 {
		fmt.Fprintf(&t.out, "\\begin{lstlisting}[language=%s]\n", lang)
	} else {
		t.out.WriteString("\\begin{lstlisting}\n")
	}
	t.writeLines(lines)
}

// closeCodeBlock closes whichever environment is open. Raw LaTeX and
// diagram blocks emit nothing: their closing fence never produces
// output.
func (t *translator) closeCodeBlock() {
	switch t.codeblock {
	case codeListing:
		t.out.WriteString("\\end{lstlisting}\n\n")
	case codeEquation:
		t.out.WriteString("\\end{equation}\n\n")
	}
	t.codeblock = codeNone
}

func (t *translator) writeLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		t.out.Write(seg.Value(t.source))
	}
}

// listingLanguage resolves the fence info, or the block content when the
// fence carries no language, to the canonical lexer name understood by
// the listings package. Returns "" when nothing matches.
func (t *translator) listingLanguage(tokens []string, lines *text.Segments) string {

	var l chroma.Lexer
	if len(tokens) > 0 {
		l = lexers.Get(tokens[0])
	}
	if l == nil {
		var sb strings.Builder
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(t.source))
		}
		l = lexers.Analyse(sb.String())
	}
	if l == nil {
		return ""
	}
	return l.Config().Name
}
