package types

import (
	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/goblinsan/fplan/pkg/header"
)

// Plan is the document produced from a plan folder.
type Plan struct {
	Header   *header.Project `yaml:"header" json:"header"`
	Features []fplan.Feature `yaml:"features" json:"features"`
}

// TaskCount returns the number of tasks across all features.
func (p *Plan) TaskCount() int {
	n := 0
	for _, f := range p.Features {
		n += len(f.Tasks)
	}
	return n
}

// TotalEffort sums the declared person-days per service.
func (p *Plan) TotalEffort() map[string]int {
	totals := make(map[string]int)
	for _, f := range p.Features {
		for _, t := range f.Tasks {
			if t.Effort != nil {
				totals[t.Effort.Service] += t.Effort.PDs
			}
		}
	}
	return totals
}
