package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goblinsan/fplan/pkg/logger"
	"github.com/goblinsan/fplan/pkg/output"
	"github.com/goblinsan/fplan/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHeader = `
title = "Shop"
[services]
web = "Storefront"
[resources]
alice = "dev"
`

const testPlan = `
feature: Checkout
- Spec: https://wiki
task: Payment form
effort: web 3
`

func writePlanDir(t *testing.T, headerText, planText string) string {
	t.Helper()
	dir := t.TempDir()
	if headerText != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, HeaderFile), []byte(headerText), 0o644))
	}
	if planText != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, PlanFile), []byte(planText), 0o644))
	}
	return dir
}

func TestBuild(t *testing.T) {
	dir := writePlanDir(t, testHeader, testPlan)
	plan, err := Build(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "Shop", plan.Header.Title)
	require.Len(t, plan.Features, 1)
	assert.Equal(t, "Payment form", plan.Features[0].Tasks[0].Title)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = Build(context.Background(), writePlanDir(t, "", testPlan))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Build(context.Background(), writePlanDir(t, testHeader, ""))
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, writePlanDir(t, testHeader, testPlan))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecute(t *testing.T) {
	dir := writePlanDir(t, testHeader, testPlan)
	target := filepath.Join(t.TempDir(), "plan.json")
	var logs bytes.Buffer
	log := logger.New(logger.Config{Output: &logs})

	require.NoError(t, Execute(context.Background(), dir, target, output.FormatJSON, log))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	var plan types.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	assert.Equal(t, "Shop", plan.Header.Title)
	assert.Len(t, plan.Features, 1)
	assert.Contains(t, logs.String(), "generated")
}

func TestExecute_NoOutputOnFailure(t *testing.T) {
	dir := writePlanDir(t, "title = ", testPlan)
	target := filepath.Join(t.TempDir(), "plan.json")

	err := Execute(context.Background(), dir, target, output.FormatJSON, logger.Discard())
	require.Error(t, err)
	_, statErr := os.Stat(target)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestExecute_WarnsOnEmptyPlan(t *testing.T) {
	dir := writePlanDir(t, testHeader, "// nothing yet\n")
	target := filepath.Join(t.TempDir(), "plan.json")
	var logs bytes.Buffer

	require.NoError(t, Execute(context.Background(), dir, target, output.FormatJSON, logger.New(logger.Config{Output: &logs})))
	assert.Contains(t, logs.String(), "plan has no features")
}
