package mdtex

import (
	"errors"
	"strings"
	"testing"
)

var errDiagram = errors.New("compile failed")

func testOptions() Options {
	return Options{
		ImageWidth:      "0.8",
		FigurePlacement: "htbp",
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "chapter heading",
			in:   "# One",
			want: "\\chapter{One}\n\n",
		},
		{
			name: "section heading",
			in:   "## Title",
			want: "\\section{Title}\n\n",
		},
		{
			name: "level 6 falls back to bold",
			in:   "###### Deep",
			want: "\\textbf{Deep}\n\n",
		},
		{
			name: "unnumbered heading",
			in:   "## Title {.unnumbered}",
			want: "\\section*{Title}\n\n",
		},
		{
			name: "forced contents entry",
			in:   "# Annex {.add-contents}",
			want: "\\chapter{Annex}\n\\addcontentsline{toc}{chapter}{Annex}\n\n",
		},
		{
			name: "forced contents entry with emphasized fragment",
			in:   "# A *b* c {.add-contents}",
			want: "\\chapter{A \\textit{b} c}\n\\addcontentsline{toc}{chapter}{A b c}\n\n",
		},
		{
			name: "escaped paragraph text",
			in:   "a & b_c",
			want: "a \\& b\\_c\n\n",
		},
		{
			name: "emphasis and strong",
			in:   "*it* **bold**",
			want: "\\textit{it} \\textbf{bold}\n\n",
		},
		{
			name: "link",
			in:   "[go](https://example.com)",
			want: "\\href{https://example.com}{go}\n\n",
		},
		{
			name: "inline code is escaped and monospaced",
			in:   "`a_b`",
			want: "\\texttt{a\\_b}\n\n",
		},
		{
			name: "unordered list",
			in:   "- one\n- two",
			want: "\\begin{itemize}\n\\item one\n\\item two\n\\end{itemize}\n",
		},
		{
			name: "ordered list",
			in:   "1. one",
			want: "\\begin{enumerate}\n\\item one\n\\end{enumerate}\n",
		},
		{
			name: "rule",
			in:   "***",
			want: "\\hrulefill\n",
		},
		{
			name: "soft break",
			in:   "a\nb",
			want: "a\nb\n\n",
		},
		{
			name: "hard break",
			in:   "a  \nb",
			want: "a\\\\\nb\n\n",
		},
		{
			name: "image figure",
			in:   "![caption text](img.png)",
			want: "\\begin{figure}[htbp]\n" +
				"\\centering\n" +
				"\\includegraphics[width=0.8\\textwidth]{img.png}\n" +
				"\\caption{caption text}\n" +
				"\\label{fig:img.png}\n" +
				"\\end{figure}\n\n\n",
		},
		{
			name: "figure with multi-line alt text",
			in:   "![first line\nsecond line](img.png)",
			want: "\\begin{figure}[htbp]\n" +
				"\\centering\n" +
				"\\includegraphics[width=0.8\\textwidth]{img.png}\n" +
				"\\caption{first line second line}\n" +
				"\\label{fig:img.png}\n" +
				"\\end{figure}\n\n\n",
		},
		{
			name: "table with alignments",
			in:   "| a | b |\n|:--|--:|\n| 1 | 2 |",
			want: "\\begin{tabularx}{\\textwidth}{|>{\\raggedright\\arraybackslash}X|>{\\raggedleft\\arraybackslash}X|} \\hline\n" +
				"a & b \\\\ \\hline\n" +
				"1 & 2 \\\\ \\hline\n" +
				"\\end{tabularx}\n\n",
		},
		{
			name: "plain listing",
			in:   "```\nx\n```",
			want: "\\begin{lstlisting}\nx\n\\end{lstlisting}\n\n",
		},
		{
			name: "labeled equation fence",
			in:   "``` block_equation{mylabel}\nx = 1\n```",
			want: "\\begin{equation}\n\\label{eq:mylabel}\nx = 1\n\\end{equation}\n\n",
		},
		{
			name: "unlabeled equation fence",
			in:   "``` block_equation{}\nx = 1\n```",
			want: "\\begin{equation}\nx = 1\n\\end{equation}\n\n",
		},
		{
			name: "raw latex fence has no wrapper and no escaping",
			in:   "```latex raw\n\\begin{center}\nA & B_x\n\\end{center}\n```",
			want: "\\begin{center}\nA & B_x\n\\end{center}\n",
		},
	}

	conv := New(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.translate([]byte(tt.in), testOptions())
			if err != nil {
				t.Fatalf("translate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("translate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslateListingLanguage(t *testing.T) {
	conv := New(nil, nil)
	opts := testOptions()
	opts.CodeLanguage = true

	got, err := conv.translate([]byte("```go\nfmt.Println(1)\n```"), opts)
	if err != nil {
		t.Fatalf("translate() error = %v", err)
	}
	want := "\\begin{lstlisting}[language=Go]\nfmt.Println(1)\n\\end{lstlisting}\n\n"
	if got != want {
		t.Errorf("translate() = %q, want %q", got, want)
	}
}

type stubDiagrams struct {
	path string
	err  error
}

func (s *stubDiagrams) Render(source []byte) (string, error) {
	return s.path, s.err
}

func TestTranslateDiagramFence(t *testing.T) {
	conv := New(nil, nil)
	opts := testOptions()
	opts.Diagrams = &stubDiagrams{path: "builtassets/d2_abc.svg"}

	got, err := conv.translate([]byte("```d2\nx -> y\n```"), opts)
	if err != nil {
		t.Fatalf("translate() error = %v", err)
	}
	if !strings.Contains(got, "\\includesvg[width=0.8\\textwidth]{builtassets/d2_abc.svg}") {
		t.Errorf("translate() = %q, want an \\includesvg reference", got)
	}
	if !strings.Contains(got, "\\label{fig:d2_abc}") {
		t.Errorf("translate() = %q, want a fig:d2_abc label", got)
	}
}

func TestTranslateDiagramFenceRenderError(t *testing.T) {
	// A failing renderer degrades the fence to a listing
	conv := New(nil, nil)
	opts := testOptions()
	opts.Diagrams = &stubDiagrams{err: errDiagram}

	got, err := conv.translate([]byte("```d2\nx -> y\n```"), opts)
	if err != nil {
		t.Fatalf("translate() error = %v", err)
	}
	want := "\\begin{lstlisting}\nx -> y\n\\end{lstlisting}\n\n"
	if got != want {
		t.Errorf("translate() = %q, want %q", got, want)
	}
}

func TestTranslateDiagramFenceWithoutRenderer(t *testing.T) {
	// Without a renderer the fence is an ordinary listing
	conv := New(nil, nil)

	got, err := conv.translate([]byte("```d2\nx -> y\n```"), testOptions())
	if err != nil {
		t.Fatalf("translate() error = %v", err)
	}
	want := "\\begin{lstlisting}\nx -> y\n\\end{lstlisting}\n\n"
	if got != want {
		t.Errorf("translate() = %q, want %q", got, want)
	}
}
