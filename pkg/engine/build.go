package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"
	"github.com/goblinsan/fplan/pkg/fplan"
	"github.com/goblinsan/fplan/pkg/header"
	"github.com/goblinsan/fplan/pkg/output"
	"github.com/goblinsan/fplan/pkg/types"
)

// File names looked up inside a plan folder.
const (
	HeaderFile = "plan-header.toml"
	PlanFile   = "plan.fplan"
)

// ErrNoSource is returned when no plan folder is given.
var ErrNoSource = errors.New("source folder is required")

// Build reads the header and plan files of dir into a Plan.
func Build(ctx context.Context, dir string) (*types.Plan, error) {
	if dir == "" {
		return nil, ErrNoSource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	project, err := header.ParseFile(filepath.Join(dir, HeaderFile))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, PlanFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	features, err := fplan.ParseReader(f)
	if err != nil {
		return nil, err
	}
	return &types.Plan{Header: project, Features: features}, nil
}

// Execute builds dir and writes the result to target.
func Execute(ctx context.Context, dir, target string, format output.Format, log *charmlog.Logger) error {
	plan, err := Build(ctx, dir)
	if err != nil {
		return fmt.Errorf("cannot process %s: %w", dir, err)
	}
	if len(plan.Features) == 0 {
		log.Warn("plan has no features", "file", filepath.Join(dir, PlanFile))
	}
	if err := output.WriteFile(target, plan, format); err != nil {
		return err
	}
	log.Info(target+" generated", "features", len(plan.Features), "tasks", plan.TaskCount())
	return nil
}
