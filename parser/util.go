package parser

import "strings"

type Line struct {
	Number  int
	Content string
}

func normalize(raw string) string {
	if after, ok := strings.CutPrefix(raw, "\uFEFF"); ok {
		return after
	}
	return raw
}

// ToLines splits source text into numbered physical lines.
func ToLines(raw string) []Line {
	norm := normalize(raw)
	norm = strings.ReplaceAll(norm, "\r\n", "\n")
	norm = strings.ReplaceAll(norm, "\r", "\n")
	norm = strings.TrimSuffix(norm, "\n")
	if norm == "" {
		return nil
	}
	parts := strings.Split(norm, "\n")
	out := make([]Line, 0, len(parts))
	for i, p := range parts {
		out = append(out, Line{Number: i + 1, Content: strings.TrimSpace(p)})
	}
	return out
}
