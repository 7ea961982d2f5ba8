package engine

import (
	"fmt"
	"strings"

	"github.com/goblinsan/fplan/pkg/fplan"
)

// TaskBody renders the markdown body of a task issue.
func TaskBody(t fplan.Task) string {
	var b strings.Builder
	for _, note := range t.Notes {
		b.WriteString(note)
		b.WriteString("\n")
	}
	if len(t.Notes) > 0 {
		b.WriteString("\n")
	}
	if t.Effort != nil {
		fmt.Fprintf(&b, "**Effort:** %d pd (%s)\n", t.Effort.PDs, t.Effort.Service)
	}
	if t.By != nil {
		if t.By.When != "" {
			fmt.Fprintf(&b, "**By:** %s (%s)\n", t.By.Name, t.By.When)
		} else {
			fmt.Fprintf(&b, "**By:** %s\n", t.By.Name)
		}
	}
	writeLinks(&b, t.Links)
	if len(t.Dependencies) > 0 {
		b.WriteString("\n### Dependencies\n")
		for _, d := range t.Dependencies {
			by := ""
			if d.By != nil {
				by = " by " + *d.By
			}
			fmt.Fprintf(&b, "- %s%s: %s\n", d.TeamAlias, by, d.Description)
		}
	}
	return strings.TrimSpace(b.String())
}

// EpicBody renders the markdown body of a feature epic followed by its
// task checklist.
func EpicBody(f fplan.Feature, checklist []string) string {
	var b strings.Builder
	writeLinks(&b, f.Links)
	if len(checklist) > 0 {
		b.WriteString("\n### Tasks\n")
		b.WriteString(strings.Join(checklist, "\n"))
	}
	return strings.TrimSpace(b.String())
}

func writeLinks(b *strings.Builder, links []fplan.Record) {
	if len(links) == 0 {
		return
	}
	b.WriteString("\n### Links\n")
	for _, l := range links {
		fmt.Fprintf(b, "- [%s](%s)\n", l.Label, strings.TrimSpace(l.Value))
	}
}
