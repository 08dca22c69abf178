package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwchen/argus/internal/api"
	"github.com/jwchen/argus/internal/api/handlers"
	"github.com/jwchen/argus/internal/scheduler"
	"github.com/jwchen/argus/internal/screen"
	"github.com/jwchen/argus/internal/storage"
	"github.com/jwchen/argus/pkg/database"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and the job scheduler",
	Long: `Starts the long-running service: the REST API plus the scheduled
jobs (daily collection after the close, evening screen refresh).

Endpoints:
  GET  /health
  GET  /api/v1/screen/table
  GET  /api/v1/screen/top
  GET  /api/v1/algorithms
  POST /api/v1/backtest

Example:
  go run ./cmd/argus serve
  go run ./cmd/argus serve --port 8086`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := initRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if servePort != "" {
		rt.cfg.Port = servePort
	}

	rt.log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("initializing service")

	db, err := database.New(rt.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	priceRepo := storage.NewPriceRepository(db.Pool)
	snapshotRepo := storage.NewSnapshotRepository(db.Pool)

	screener := rt.newScreener()
	latest := &screen.Latest{}
	engine := rt.newEngine()

	// Scheduled jobs
	sched := scheduler.New(rt.log)
	collectJob := scheduler.NewCollectJob(rt.client, rt.loader, priceRepo, snapshotRepo, 0, rt.log)
	screenJob := scheduler.NewScreenJob(screener, latest, rt.log)
	for _, job := range []scheduler.Job{collectJob, screenJob} {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule %s: %w", job.Name(), err)
		}
	}
	sched.Start()
	defer sched.Stop()

	// Seed the factor table so the API has something to serve before
	// the first scheduled refresh.
	if err := sched.RunJob(screenJob.Name()); err != nil {
		rt.log.WithError(err).Warn("initial screen trigger failed")
	}

	// API
	screenHandler := handlers.NewScreenHandler(latest, rt.cfg.Factor.TopFraction, rt.log)
	backtestHandler := handlers.NewBacktestHandler(priceRepo, rt.client, engine, rt.cfg.Backtest, rt.log)
	router := api.NewRouter(screenHandler, backtestHandler, rt.log)
	server := api.New(rt.cfg, rt.log, router)

	go func() {
		if err := server.Start(); err != nil {
			rt.log.WithError(err).Fatal("failed to start server")
		}
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	rt.log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	rt.log.Info("server stopped")
	return nil
}
