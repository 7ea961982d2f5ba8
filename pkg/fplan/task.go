package fplan

import "strings"

// lineContext is the field category a task line is read under.
type lineContext int

const (
	contextUnknown lineContext = iota
	contextEffort
	contextTicket
	contextBy
	contextNotes
	contextLinks
	contextDependency
)

func (c lineContext) String() string {
	switch c {
	case contextEffort:
		return "effort"
	case contextTicket:
		return "ticket"
	case contextBy:
		return "by"
	case contextNotes:
		return "notes"
	case contextLinks:
		return "links"
	case contextDependency:
		return "dependencies"
	default:
		return "unknown"
	}
}

// keyword switches the context. Single-line fields carry their value on the
// keyword line itself and set it through apply.
type keyword struct {
	prefix  string
	context lineContext
	apply   func(t *Task, line string)
}

var keywords = []keyword{
	{prefix: prefixEffort, context: contextEffort, apply: func(t *Task, line string) {
		effort := parseEffort(line)
		t.Effort = &effort
	}},
	{prefix: prefixTicket, context: contextTicket, apply: func(t *Task, line string) {
		t.Ticket = markerValue(line, prefixTicket)
	}},
	{prefix: prefixBy, context: contextBy, apply: func(t *Task, line string) {
		by := parseResource(line)
		t.By = &by
	}},
	{prefix: prefixNotes, context: contextNotes},
	{prefix: prefixLinks, context: contextLinks},
	{prefix: prefixDependencies, context: contextDependency},
}

// switchContext reports the context a keyword line enters, applying any
// value it carries. ok is false for body lines.
func switchContext(t *Task, line string) (next lineContext, ok bool) {
	for _, kw := range keywords {
		if !strings.HasPrefix(line, kw.prefix) {
			continue
		}
		if kw.apply != nil {
			kw.apply(t, line)
		}
		return kw.context, true
	}
	return contextUnknown, false
}

// appendBody files a non-keyword line under the current context. Lines
// under single-line fields and before any keyword are dropped.
func appendBody(t *Task, ctx lineContext, line string) {
	switch ctx {
	case contextNotes:
		t.Notes = append(t.Notes, line)
	case contextLinks:
		if link, ok := parseRecord(line); ok {
			t.Links = append(t.Links, link)
		}
	case contextDependency:
		if dep, ok := parseDependency(line); ok {
			t.Dependencies = append(t.Dependencies, dep)
		}
	}
}

// extractTask builds a task from its block; lines[0] is the marker.
func extractTask(lines []string) Task {
	task := Task{
		Title:        markerValue(lines[0], prefixTask),
		Links:        make([]Record, 0),
		Notes:        make([]string, 0),
		Dependencies: make([]Dependency, 0),
	}

	ctx := contextUnknown
	for _, line := range lines[1:] {
		if next, ok := switchContext(&task, line); ok {
			ctx = next
			continue
		}
		appendBody(&task, ctx, line)
	}
	return task
}
