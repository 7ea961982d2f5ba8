package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/goblinsan/fplan/pkg/engine"
	"github.com/goblinsan/fplan/pkg/output"
	"github.com/goblinsan/fplan/pkg/watch"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("output", "o", "./plan.json", "Output file")
	buildCmd.Flags().String("format", "json", "Output format (json, yaml)")
	buildCmd.Flags().BoolP("watch", "w", false, "Keep watching the source folder and rebuild on change")
	buildCmd.Flags().Duration("debounce", watch.DefaultDebounce, "How long to wait for changes to settle before rebuilding")

	for _, name := range []string{"output", "format", "watch", "debounce"} {
		viper.BindPFlag(name, buildCmd.Flags().Lookup(name))
	}
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a plan document from a plan folder",
	Long:  `Read plan-header.toml and plan.fplan from the source folder and write the combined plan document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), viper.GetBool("watch"))
	},
}

func runBuild(ctx context.Context, keepWatching bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	source := viper.GetString("source")
	if source == "" {
		return engine.ErrNoSource
	}
	target := viper.GetString("output")
	format, err := output.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}

	if !keepWatching {
		return engine.Execute(ctx, source, target, format, log)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(source,
		watch.WithFiles(engine.HeaderFile, engine.PlanFile),
		watch.WithDebounce(viper.GetDuration("debounce")),
		watch.WithLogger(log),
	)
	if err != nil {
		return err
	}
	w.OnChange(func() {
		if err := engine.Execute(ctx, source, target, format, log); err != nil {
			log.Error("build failed", "err", err)
		}
	})

	log.Info("watching source files", "source", source, "output", target)
	if err := engine.Execute(ctx, source, target, format, log); err != nil {
		log.Error("build failed", "err", err)
	}
	return w.Run(ctx)
}
