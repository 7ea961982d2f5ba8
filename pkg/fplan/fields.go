package fplan

import (
	"strconv"
	"strings"
)

const recordSeparator = ": "

// parseRecord reads "label: value". Dashes are removed from the label so
// list bullets ("- Spec: ...") do not leak into it.
func parseRecord(line string) (Record, bool) {
	parts := strings.Split(line, recordSeparator)
	if len(parts) != 2 {
		return Record{}, false
	}
	return Record{
		Label: strings.TrimSpace(strings.ReplaceAll(parts[0], "-", "")),
		Value: parts[1],
	}, true
}

// parseDependency reads "team by description". Lines with fewer than three
// tokens are rejected.
func parseDependency(line string) (Dependency, bool) {
	words := strings.Split(strings.TrimSpace(line), " ")
	if len(words) < 3 {
		return Dependency{}, false
	}
	by := words[1]
	return Dependency{
		TeamAlias:   words[0],
		By:          &by,
		Description: words[2],
	}, true
}

// parseEffort reads "effort: service pds". A missing or non-numeric pds
// is zero.
func parseEffort(line string) Effort {
	words := strings.Split(markerValue(line, prefixEffort), " ")
	effort := Effort{Service: words[0]}
	if len(words) > 1 {
		if pds, err := strconv.Atoi(words[1]); err == nil {
			effort.PDs = pds
		}
	}
	return effort
}

// parseResource reads "by: name when".
func parseResource(line string) Resource {
	words := strings.Split(markerValue(line, prefixBy), " ")
	res := Resource{Name: words[0]}
	if len(words) > 1 {
		res.When = words[1]
	}
	return res
}
