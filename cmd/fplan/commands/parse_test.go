package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCmd_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.fplan")
	require.NoError(t, os.WriteFile(path, []byte("feature: F\ntask: T\nticket: X-1\n"), 0o644))

	var out bytes.Buffer
	parseCmd.SetOut(&out)
	t.Cleanup(func() {
		parseCmd.SetOut(nil)
		_ = parseCmd.Flags().Set("yaml", "false")
	})
	require.NoError(t, parseCmd.Flags().Set("yaml", "true"))
	require.NoError(t, parseCmd.RunE(parseCmd, []string{path}))

	var features []fplan.Feature
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &features))
	require.Len(t, features, 1)
	assert.Equal(t, "X-1", features[0].Tasks[0].Ticket)
}
