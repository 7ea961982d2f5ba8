package commands

import (
	"fmt"

	"github.com/goblinsan/fplan/pkg/engine"
	"github.com/goblinsan/fplan/pkg/github"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().String("repository", "", "Target repository (owner/repo)")
	applyCmd.Flags().String("project", "", "GitHub Project V2 board title to add issues to")
	applyCmd.Flags().Bool("dry-run", false, "Preview what would be created without making changes")

	viper.BindPFlag("repository", applyCmd.Flags().Lookup("repository"))
	viper.BindPFlag("project", applyCmd.Flags().Lookup("project"))
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Export a plan folder to GitHub issues",
	Long:  `Create one GitHub issue per task and one epic issue per feature. Tasks that already have a ticket are referenced from the epic instead of created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := engine.Build(cmd.Context(), viper.GetString("source"))
		if err != nil {
			return err
		}

		repository := viper.GetString("repository")
		if repository == "" {
			return fmt.Errorf("repository is required. Set it via --repository flag, FPLAN_REPOSITORY environment variable, or config file")
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		token := viper.GetString("token")
		if token == "" && !dryRun {
			return fmt.Errorf("GitHub token is required. Set it via --token flag, FPLAN_TOKEN environment variable, or config file")
		}

		client := github.NewClient(token)
		if !dryRun {
			user, err := client.GetAuthenticatedUser(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get authenticated user: %w", err)
			}
			log.Info("applying plan", "user", user.GetLogin(), "repository", repository, "features", len(plan.Features))
		}

		report, err := engine.ApplyPlan(cmd.Context(), client, repository, plan.Features, engine.Options{
			DryRun:  dryRun,
			Project: viper.GetString("project"),
			Out:     cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}
