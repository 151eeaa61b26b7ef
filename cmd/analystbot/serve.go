package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deusflow/analystbot/internal/cache"
	"github.com/deusflow/analystbot/internal/logger"
	"github.com/deusflow/analystbot/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run on a cron schedule and expose monitoring endpoints",
	Long: `Run the pipeline on SCHEDULE (five-field cron, evaluated in TIMEZONE) and
serve /health, /stats and /metrics on MONITORING_PORT.

Examples:
  analystbot serve                 # 07:50 and 18:50 by default
  analystbot serve --now           # Also run once at startup`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("now", false, "run once immediately at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	runNow, _ := cmd.Flags().GetBool("now")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(cfg.Debug, "")
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	imageCache := cache.New(ctx, 10*time.Minute)
	job := func(ctx context.Context) {
		if err := runOnce(ctx, imageCache); err != nil {
			log.Warn("scheduled run ended without publishing", "error", err)
		}
	}

	sched, err := scheduler.New(ctx, cfg.Schedule, loc, job, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.MonitoringPort,
		Handler:           newMonitoringMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("starting monitoring server", "port", cfg.MonitoringPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("monitoring server error", "error", err)
		}
	}()

	sched.Start()
	if runNow {
		go job(ctx)
	}

	<-ctx.Done()
	log.Info("shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
