package mdtex

import (
	"regexp"

	"github.com/mdtex/mdtex/texedit"
)

var (
	// Citation and reference commands whose braces were escaped by the
	// in-text replacement after the preprocessor emitted them.
	citeEscaped = regexp.MustCompile(`\\cite\\\{(.*?)\\\}`)
	refEscaped  = regexp.MustCompile(`\\ref\\\{(.*?)\\\}`)

	// Spans whose inner content must not carry prose escaping.
	inlineMath  = regexp.MustCompile(`\$([^$\n]+)\$`)
	refArgument = regexp.MustCompile(`\\ref\{([^}]+)\}`)
)

// Postprocess repairs the escaping collisions in the assembled LaTeX
// text: escaped-brace cite/ref invocations are rewritten back to their
// clean form, and the inner content of inline-math spans and reference
// arguments gets the inverse in-text replacement applied.
//
// The repairs run as successive passes, each over the result of the
// previous one, so a reference recovered by an earlier pass is seen by
// the later inverse-replacement pass. Each pass edits only the spans
// its pattern matched, leaving unrelated text untouched, and the whole
// function is idempotent: repaired text contains no escaped braces or
// escaped span content left to match.
func Postprocess(input string, text *Table) string {

	repairs := []struct {
		re      *regexp.Regexp
		rewrite func(inner string) string
	}{
		{citeEscaped, func(inner string) string { return `\cite{` + inner + `}` }},
		{refEscaped, func(inner string) string { return `\ref{` + inner + `}` }},
		{inlineMath, func(inner string) string { return `$` + text.Invert(inner) + `$` }},
		{refArgument, func(inner string) string { return `\ref{` + text.Invert(inner) + `}` }},
	}

	out := []byte(input)
	for _, repair := range repairs {
		rewrite := repair.rewrite
		buf := texedit.NewBuffer(out)
		buf.ReplaceAllSubmatchFunc(repair.re, func(inner []byte) []byte {
			return []byte(rewrite(string(inner)))
		})
		out = buf.Bytes()
	}

	return string(out)
}
