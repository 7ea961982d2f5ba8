package fplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
		ok   bool
	}{
		{"bullet", "- Spec: http://x", Record{Label: "Spec", Value: "http://x"}, true},
		{"dashes inside label", "-- Multi-part-name: v", Record{Label: "Multipartname", Value: "v"}, true},
		{"leading dash only", "-: v", Record{Label: "", Value: "v"}, true},
		{"value untrimmed", "a:  b ", Record{Label: "a", Value: " b "}, true},
		{"url keeps colon without space", "Repo: https://git/x", Record{Label: "Repo", Value: "https://git/x"}, true},
		{"no separator", "Spec no-colon-here", Record{}, false},
		{"colon without space", "Spec:http://x", Record{}, false},
		{"too many separators", "a: b: c", Record{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRecord(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDependency(t *testing.T) {
	dep, ok := parseDependency("teamA 2024-01-01 needs-api-key")
	assert.True(t, ok)
	assert.Equal(t, Dependency{TeamAlias: "teamA", By: strPtr("2024-01-01"), Description: "needs-api-key"}, dep)

	dep, ok = parseDependency("  teamA soon first extra  ")
	assert.True(t, ok)
	assert.Equal(t, "first", dep.Description)

	for _, line := range []string{"teamA 2024-01-01", "teamA", ""} {
		_, ok := parseDependency(line)
		assert.False(t, ok, "line %q", line)
	}
}

func TestParseEffort(t *testing.T) {
	tests := []struct {
		line string
		want Effort
	}{
		{"effort: svc 3", Effort{Service: "svc", PDs: 3}},
		{"effort: svc", Effort{Service: "svc"}},
		{"effort: svc lots", Effort{Service: "svc"}},
		{"effort: svc -2", Effort{Service: "svc", PDs: -2}},
		{"effort:", Effort{}},
		{"effort:   svc 4 extra", Effort{Service: "svc", PDs: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEffort(tt.line))
		})
	}
}

func TestParseResource(t *testing.T) {
	assert.Equal(t, Resource{Name: "alice", When: "sprint2"}, parseResource("by: alice sprint2"))
	assert.Equal(t, Resource{Name: "alice"}, parseResource("by: alice"))
	assert.Equal(t, Resource{}, parseResource("by:"))
}
