package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/scheduler"
)

var runOnStart bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Re-evaluate the universe on the configured schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("[INFO] Sentinel starting...")
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sinks := []notifier.Sink{notifier.NewWriterSink(os.Stdout)}
		var tn *notifier.TelegramNotifier
		if a.cfg.Telegram.BotToken != "" {
			tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
			sinks = append(sinks, tn)
		}

		sched := scheduler.NewScheduler(ctx, a.collector, a.evaluator, a.cfg.Schedule.CycleTimeout, sinks...)
		if err := sched.Register(a.cfg.Schedule.RefreshCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		if tn != nil {
			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Println("[INFO] Telegram polling started")
		}

		if runOnStart {
			log.Println("[INFO] --run-on-start enabled, evaluating now")
			sched.Trigger()
		}

		log.Printf("[INFO] Sentinel is running (%s). Press Ctrl+C to stop.", a.cfg.Schedule.RefreshCron)
		<-ctx.Done()
		log.Println("[INFO] shutdown signal received, stopping...")
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "evaluate once immediately (env RUN_ON_START)")
	rootCmd.AddCommand(runCmd)
}
