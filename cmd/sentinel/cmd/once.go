package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/scheduler"
)

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Evaluate the universe a single time and print the ranked report",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := context.Background()
		sched := scheduler.NewScheduler(ctx, a.collector, a.evaluator, a.cfg.Schedule.CycleTimeout,
			notifier.NewWriterSink(os.Stdout))
		_, err = sched.RunOnce(ctx)
		return err
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
}
