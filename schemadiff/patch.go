package schemadiff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// linePatch renders a line based diff of two documents: removed lines start
// with "-", added lines with "+" and unchanged context lines with a space.
// Runs of unchanged lines longer than twice the context are elided.
func linePatch(before, after string) string {
	const contextLines = 3

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for i, d := range diffs {
		text := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writeLines(&sb, "-", text)
		case diffmatchpatch.DiffInsert:
			writeLines(&sb, "+", text)
		case diffmatchpatch.DiffEqual:
			first, last := i == 0, i == len(diffs)-1
			switch {
			case len(text) <= 2*contextLines && !first && !last:
				writeLines(&sb, " ", text)
			case first && last:
			case first:
				writeLines(&sb, " ", tail(text, contextLines))
			case last:
				writeLines(&sb, " ", head(text, contextLines))
			default:
				writeLines(&sb, " ", text[:contextLines])
				sb.WriteString("@@\n")
				writeLines(&sb, " ", text[len(text)-contextLines:])
			}
		}
	}
	return sb.String()
}

func writeLines(sb *strings.Builder, prefix string, lines []string) {
	for _, l := range lines {
		sb.WriteString(prefix)
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

func tail(lines []string, n int) []string {
	if len(lines) > n {
		return lines[len(lines)-n:]
	}
	return lines
}
