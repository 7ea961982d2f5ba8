package commands

import (
	"fmt"
	"os"

	"github.com/goblinsan/fplan/pkg/engine"
	"github.com/goblinsan/fplan/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a plan folder without writing any output",
	Long:  `Validate a plan folder for correctness. Checks titles and cross references between the plan and its header (services, resources, iterations, teams).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := engine.Build(cmd.Context(), viper.GetString("source"))
		if err != nil {
			return err
		}

		errs := validatePlan(*plan)
		if len(errs) > 0 {
			fmt.Fprintf(os.Stderr, "Validation failed with %d error(s):\n", len(errs))
			for i, e := range errs {
				fmt.Fprintf(os.Stderr, "  %d. %s\n", i+1, e)
			}
			os.Exit(1)
		}

		fmt.Printf("Plan is valid: %d features, %d tasks.\n", len(plan.Features), plan.TaskCount())
		return nil
	},
}

func validatePlan(plan types.Plan) []string {
	var errs []string

	if len(plan.Features) == 0 {
		errs = append(errs, "plan has no features")
	}

	h := plan.Header
	featureTitles := make(map[string]bool)
	for i, feature := range plan.Features {
		if feature.Title == "" {
			errs = append(errs, fmt.Sprintf("features[%d]: title is required", i))
		} else if featureTitles[feature.Title] {
			errs = append(errs, fmt.Sprintf("features[%d]: duplicate title %q", i, feature.Title))
		}
		featureTitles[feature.Title] = true

		taskTitles := make(map[string]bool)
		for j, task := range feature.Tasks {
			where := fmt.Sprintf("features[%d].tasks[%d]", i, j)
			if task.Title == "" {
				errs = append(errs, where+": title is required")
				continue
			}
			if taskTitles[task.Title] {
				errs = append(errs, fmt.Sprintf("%s: duplicate title %q", where, task.Title))
			}
			taskTitles[task.Title] = true
			where = fmt.Sprintf("%s %q", where, task.Title)

			if h == nil {
				continue
			}
			if task.Effort != nil && len(h.Services) > 0 && !h.HasService(task.Effort.Service) {
				errs = append(errs, fmt.Sprintf("%s: service %q is not defined in services section", where, task.Effort.Service))
			}
			if task.By != nil {
				if len(h.Resources) > 0 && !h.HasResource(task.By.Name) {
					errs = append(errs, fmt.Sprintf("%s: resource %q is not defined in resources section", where, task.By.Name))
				}
				if task.By.When != "" && len(h.Iterations) > 0 && !h.HasIteration(task.By.When) {
					errs = append(errs, fmt.Sprintf("%s: iteration %q is not defined in iterations section", where, task.By.When))
				}
			}
			for _, dep := range task.Dependencies {
				if !h.HasTeam(dep.TeamAlias) {
					errs = append(errs, fmt.Sprintf("%s: team %q is not defined in teams section", where, dep.TeamAlias))
				}
			}
		}
	}

	return errs
}
