package schema

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Chunk is one changed run of lines.
type Chunk struct {
	Type    string `json:"type"` // "added" or "removed"
	Content string `json:"content"`
}

// Diff compares before and after line by line and returns the changed
// chunks in order.
func Diff(before, after string) []Chunk {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	chunks := make([]Chunk, 0)
	for _, d := range diffs {
		var typ string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			typ = "added"
		case diffmatchpatch.DiffDelete:
			typ = "removed"
		case diffmatchpatch.DiffEqual:
			continue
		}
		if strings.TrimSpace(d.Text) != "" {
			chunks = append(chunks, Chunk{Type: typ, Content: d.Text})
		}
	}
	return chunks
}

// FormatDiff renders chunks with "+ " and "- " line prefixes.
func FormatDiff(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		prefix := "+ "
		if c.Type == "removed" {
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimRight(c.Content, "\n"), "\n") {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
