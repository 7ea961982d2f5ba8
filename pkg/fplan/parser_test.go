package fplan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `
// plan for Q3
feature: Checkout
docs:
- Spec: https://wiki/checkout
- Design: https://figma/checkout

task: Payment form
effort: web 3
by: alice sprint2
ticket: SHOP-12
notes:
remember the 3DS flow
  keep the old form behind a flag
links:
- Mock: https://figma/x
dependencies:
payments 2024-01-01 api-key

task: Receipt email
effort: mail

feature: Search
task: Index products
`

func strPtr(s string) *string { return &s }

func TestParse_SamplePlan(t *testing.T) {
	features := Parse(samplePlan)
	require.Len(t, features, 2)

	checkout := features[0]
	assert.Equal(t, "Checkout", checkout.Title)
	assert.Equal(t, []Record{
		{Label: "Spec", Value: "https://wiki/checkout"},
		{Label: "Design", Value: "https://figma/checkout"},
	}, checkout.Links)
	require.Len(t, checkout.Tasks, 2)

	form := checkout.Tasks[0]
	assert.Equal(t, Task{
		Title:  "Payment form",
		Links:  []Record{{Label: "Mock", Value: "https://figma/x"}},
		By:     &Resource{Name: "alice", When: "sprint2"},
		Effort: &Effort{Service: "web", PDs: 3},
		Notes:  []string{"remember the 3DS flow", "keep the old form behind a flag"},
		Ticket: "SHOP-12",
		Dependencies: []Dependency{
			{TeamAlias: "payments", By: strPtr("2024-01-01"), Description: "api-key"},
		},
	}, form)

	receipt := checkout.Tasks[1]
	assert.Equal(t, "Receipt email", receipt.Title)
	assert.Equal(t, &Effort{Service: "mail", PDs: 0}, receipt.Effort)
	assert.Equal(t, "", receipt.Ticket)
	assert.Nil(t, receipt.By)
	assert.Empty(t, receipt.Notes)

	search := features[1]
	assert.Equal(t, "Search", search.Title)
	assert.Empty(t, search.Links)
	require.Len(t, search.Tasks, 1)
	assert.Equal(t, "Index products", search.Tasks[0].Title)
}

func TestParse_MinimalFeature(t *testing.T) {
	doc := "feature: F\n- Ref: http://x\ntask: T\neffort: svc 3\nticket: T-1\n"
	features := Parse(doc)
	require.Len(t, features, 1)
	assert.Equal(t, "F", features[0].Title)
	assert.Equal(t, []Record{{Label: "Ref", Value: "http://x"}}, features[0].Links)
	require.Len(t, features[0].Tasks, 1)
	task := features[0].Tasks[0]
	assert.Equal(t, "T", task.Title)
	assert.Equal(t, &Effort{Service: "svc", PDs: 3}, task.Effort)
	assert.Equal(t, "T-1", task.Ticket)
}

func TestParse_NoFeatures(t *testing.T) {
	for _, doc := range []string{"", "\n\n", "// only a comment", "task: orphan\neffort: x 1"} {
		features := Parse(doc)
		assert.NotNil(t, features, "doc %q", doc)
		assert.Empty(t, features, "doc %q", doc)
	}
}

func TestParse_PreambleDropped(t *testing.T) {
	features := Parse("- Ref: http://x\ntask: lost\nfeature: F")
	require.Len(t, features, 1)
	assert.Empty(t, features[0].Links)
	assert.Empty(t, features[0].Tasks)
}

func TestParse_ConsecutiveFeatures(t *testing.T) {
	features := Parse("feature: A\nfeature: B\ntask: T")
	require.Len(t, features, 2)
	assert.Equal(t, "A", features[0].Title)
	assert.Empty(t, features[0].Links)
	assert.Empty(t, features[0].Tasks)
	assert.Equal(t, "B", features[1].Title)
	require.Len(t, features[1].Tasks, 1)
}

func TestParse_FeatureWithoutTasks(t *testing.T) {
	features := Parse("feature: Docs only\ndocs:\n- Wiki: http://w")
	require.Len(t, features, 1)
	assert.Equal(t, []Record{{Label: "Wiki", Value: "http://w"}}, features[0].Links)
	assert.NotNil(t, features[0].Tasks)
	assert.Empty(t, features[0].Tasks)
}

func TestParse_DocsRegionEndsAtFirstTask(t *testing.T) {
	doc := strings.Join([]string{
		"feature: F",
		"- Before: 1",
		"task: T1",
		"- After: 2",
		"task: T2",
		"- Later: 3",
	}, "\n")
	features := Parse(doc)
	require.Len(t, features, 1)
	assert.Equal(t, []Record{{Label: "Before", Value: "1"}}, features[0].Links)
	require.Len(t, features[0].Tasks, 2)
	assert.Empty(t, features[0].Tasks[0].Links)
	assert.Empty(t, features[0].Tasks[1].Links)
}

func TestParse_TaskOrderFollowsSource(t *testing.T) {
	features := Parse("feature: F\ntask: one\ntask: two\ntask: three")
	require.Len(t, features, 1)
	var titles []string
	for _, task := range features[0].Tasks {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"one", "two", "three"}, titles)
}

func TestParse_Deterministic(t *testing.T) {
	assert.Equal(t, Parse(samplePlan), Parse(samplePlan))
}

func TestParse_WindowsLineEndings(t *testing.T) {
	features := Parse("feature: F\r\ntask: T\r\nticket: X-1\r\n")
	require.Len(t, features, 1)
	require.Len(t, features[0].Tasks, 1)
	assert.Equal(t, "X-1", features[0].Tasks[0].Ticket)
}

func TestNormalize(t *testing.T) {
	got := normalize("  a  b  \n\n   \n// comment\n   // indented comment\nc\n")
	assert.Equal(t, []string{"a  b", "c"}, got)
	assert.Empty(t, normalize(""))
}

func TestSegment(t *testing.T) {
	lines := []string{"intro", "feature: a", "x", "feature: b", "feature: c", "y", "z"}
	assert.Equal(t, []block{{1, 3}, {3, 4}, {4, 7}}, segment(lines, prefixFeature))
	assert.Empty(t, segment([]string{"x", "y"}, prefixFeature))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParseReader(t *testing.T) {
	features, err := ParseReader(strings.NewReader("feature: F"))
	require.NoError(t, err)
	require.Len(t, features, 1)

	_, err = ParseReader(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
