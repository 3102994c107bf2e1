package mdtex

import (
	"bufio"
	"strings"

	"github.com/hesusruiz/vcutils/yaml"
)

const (
	equationDelimiter = "$$"
	rawFenceOpener    = "```latex raw"
	fenceDelimiter    = "```"
	frontMatterMarker = "---"
)

// Preprocess rewrites the line-oriented Markdown extensions so the
// structural parser sees plain fenced code blocks, and applies the
// pre-pass replacement table to every other line.
//
//   - A line starting with "$$" opens a display-equation block. The rest
//     of the opener line is the equation label. The body is captured
//     verbatim until a line whose trimmed content is exactly "$$"; the
//     closing line is discarded. The block is emitted as a fenced code
//     block tagged block_equation{<label>}.
//   - A line starting a "```latex raw" fence is copied verbatim together
//     with everything up to and including the closing fence, bypassing
//     all substitution.
//   - An unterminated block consumes the rest of the input as its body.
//
// A YAML block delimited by "---" lines at the very beginning of the
// input is configuration, not document content: it is removed from the
// text and returned as the second result (nil when absent or malformed).
func Preprocess(input string, pre *Table) (string, *yaml.YAML) {

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(input))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}

	var sb strings.Builder

	i := 0
	meta := frontMatter(lines, &i)

	for ; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, equationDelimiter):
			// Begin an equation block. The remainder of the line is the label.
			label := strings.TrimSpace(strings.TrimPrefix(trimmed, equationDelimiter))

			var body strings.Builder
			for i++; i < len(lines); i++ {
				if strings.TrimSpace(lines[i]) == equationDelimiter {
					break
				}
				body.WriteString(lines[i])
				body.WriteByte('\n')
			}

			sb.WriteString(fenceDelimiter + " block_equation{" + label + "}\n")
			sb.WriteString(body.String())
			sb.WriteString(fenceDelimiter + "\n")

		case strings.HasPrefix(trimmed, rawFenceOpener):
			// Raw LaTeX passes through untouched, closing fence included
			sb.WriteString(line)
			sb.WriteByte('\n')
			for i++; i < len(lines); i++ {
				sb.WriteString(lines[i])
				sb.WriteByte('\n')
				if strings.TrimSpace(lines[i]) == fenceDelimiter {
					break
				}
			}

		default:
			sb.WriteString(pre.Apply(line))
			sb.WriteByte('\n')
		}
	}

	return sb.String(), meta
}

// frontMatter extracts a leading YAML metadata block. On success it
// advances *next past the closing marker. An unclosed block is left in
// place and treated as document content.
func frontMatter(lines []string, next *int) *yaml.YAML {

	if len(lines) == 0 || !strings.HasPrefix(lines[0], frontMatterMarker) {
		return nil
	}

	var yamlString strings.Builder
	closed := false
	end := 1
	for ; end < len(lines); end++ {
		if strings.HasPrefix(lines[end], frontMatterMarker) {
			closed = true
			end++
			break
		}
		yamlString.WriteString(lines[end])
		yamlString.WriteByte('\n')
	}
	if !closed {
		return nil
	}

	meta, err := yaml.ParseYaml(yamlString.String())
	if err != nil {
		// Malformed metadata is skipped, not fatal: the pipeline is total
		*next = end
		return nil
	}

	*next = end
	return meta
}
