package types

import (
	"testing"

	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/stretchr/testify/assert"
)

func TestPlan_Totals(t *testing.T) {
	plan := Plan{Features: fplan.Parse(`
feature: A
task: a1
effort: web 3
task: a2
effort: api 2
feature: B
task: b1
effort: web 4
task: b2
`)}
	assert.Equal(t, 4, plan.TaskCount())
	assert.Equal(t, map[string]int{"web": 7, "api": 2}, plan.TotalEffort())
}
