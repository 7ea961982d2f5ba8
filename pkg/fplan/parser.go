package fplan

import (
	"fmt"
	"io"
	"strings"
)

// Line prefixes recognized by the parser.
const (
	prefixFeature      = "feature:"
	prefixTask         = "task:"
	prefixDocs         = "docs:"
	prefixLinks        = "links:"
	prefixNotes        = "notes:"
	prefixDependencies = "dependencies:"
	prefixEffort       = "effort:"
	prefixBy           = "by:"
	prefixTicket       = "ticket:"
	prefixComment      = "//"
)

// block is a half-open range [start, end) of lines.
type block struct {
	start int
	end   int
}

// Parse converts plan text into features, in source order. A document
// without any "feature:" line yields an empty, non-nil slice.
func Parse(text string) []Feature {
	lines := normalize(text)
	features := make([]Feature, 0)
	for _, b := range segment(lines, prefixFeature) {
		features = append(features, extractFeature(lines[b.start:b.end]))
	}
	return features
}

// ParseReader reads the whole document from r and parses it.
func ParseReader(r io.Reader) ([]Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return Parse(string(data)), nil
}

// normalize trims every line and drops blank and comment lines.
func normalize(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, prefixComment) {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// segment splits lines into blocks, each starting at a line with the given
// prefix. Lines before the first marker belong to no block.
func segment(lines []string, prefix string) []block {
	var starts []int
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			starts = append(starts, i)
		}
	}
	return blocksFrom(starts, len(lines))
}

func blocksFrom(starts []int, end int) []block {
	blocks := make([]block, 0, len(starts))
	for i, start := range starts {
		stop := end
		if i+1 < len(starts) {
			stop = starts[i+1]
		}
		blocks = append(blocks, block{start: start, end: stop})
	}
	return blocks
}

// extractFeature builds a feature from its block; lines[0] is the marker.
func extractFeature(lines []string) Feature {
	feature := Feature{
		Title: markerValue(lines[0], prefixFeature),
		Links: make([]Record, 0),
		Tasks: make([]Task, 0),
	}

	var taskStarts []int
	inDocs := true
	for i := 1; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, prefixTask) {
			inDocs = false
			taskStarts = append(taskStarts, i)
			continue
		}
		if !inDocs || strings.HasPrefix(line, prefixDocs) {
			continue
		}
		if link, ok := parseRecord(line); ok {
			feature.Links = append(feature.Links, link)
		}
	}

	for _, b := range blocksFrom(taskStarts, len(lines)) {
		feature.Tasks = append(feature.Tasks, extractTask(lines[b.start:b.end]))
	}
	return feature
}

// markerValue strips the leading marker from line and trims the rest.
func markerValue(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}
