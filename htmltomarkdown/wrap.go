package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// structuralLine matches Markdown lines that must never be re-flowed:
// headings, tables, block quotes, list items, reference definitions and
// thematic breaks.
var structuralLine = regexp.MustCompile(`^(#{1,6}\s|\||>|[-*+]\s|\d+[.)]\s|\[[^\]]+\]:\s|---|\*\*\*|___)`)

// Wrap re-flows prose lines of markdown so that no line is wider than width
// display columns, breaking only at spaces. Fenced and indented code,
// tables, headings, lists and quotes are left as they are. Words wider
// than width are kept whole on their own line.
func Wrap(markdown string, width int) string {
	if width <= 0 {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for _, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence || !isProse(line) || runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, width)...)
	}

	return strings.Join(out, "\n")
}

func isProse(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
		return false
	}
	return !structuralLine.MatchString(line)
}

// wrapLine greedily packs words into lines of at most width columns.
// A trailing hard break ("  ") stays on the last line.
func wrapLine(line string, width int) []string {
	hardBreak := strings.HasSuffix(line, "  ")

	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(line) {
		w := runewidth.StringWidth(word)
		if currentWidth > 0 && currentWidth+1+w > width {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			current.WriteByte(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += w
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	if hardBreak && len(lines) > 0 {
		lines[len(lines)-1] += "  "
	}
	return lines
}
