package mdtex

import "strings"

// A Table maps literal source substrings to literal target substrings.
// The pair order is the documented application order: strings.Replacer
// performs a single left-to-right pass over the input, so replacements
// never cascade and the longest pattern wins at each position.
type Table struct {
	pairs    []string
	forward  *strings.Replacer
	backward *strings.Replacer
}

// NewTable builds a Table from alternating old/new string pairs.
func NewTable(pairs ...string) *Table {
	if len(pairs)%2 != 0 {
		panic("mdtex: odd number of replacement pairs")
	}
	inverse := make([]string, len(pairs))
	for i := 0; i < len(pairs); i += 2 {
		inverse[i] = pairs[i+1]
		inverse[i+1] = pairs[i]
	}
	return &Table{
		pairs:    pairs,
		forward:  strings.NewReplacer(pairs...),
		backward: strings.NewReplacer(inverse...),
	}
}

// Apply replaces every occurrence of a table key with its value.
// The absence of any key in s is a no-op.
func (t *Table) Apply(s string) string {
	return t.forward.Replace(s)
}

// Invert replaces every occurrence of a table value back with its key.
// It is the exact inverse of Apply for tables whose values do not
// overlap, which holds for TextTable.
func (t *Table) Invert(s string) string {
	return t.backward.Replace(s)
}

// PreTable returns the line-level table applied before structural
// parsing: the citation and cross-reference shorthand.
func PreTable() *Table {
	return NewTable(
		"[`", `\cite{`,
		"`]", "}",
		"[*", `\ref{`,
		"*]", "}",
	)
}

// TextTable returns the character-level table that escapes the
// LaTeX-reserved characters in prose text.
func TextTable() *Table {
	return NewTable(
		"&", `\&`,
		"%", `\%`,
		"_", `\_`,
		"#", `\#`,
		"{", `\{`,
		"}", `\}`,
	)
}
