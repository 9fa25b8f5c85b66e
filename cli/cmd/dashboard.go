package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/liamzebedee/feevote-go/core"
	"github.com/liamzebedee/feevote-go/core/feevote"
	"github.com/liamzebedee/feevote-go/core/store"
	"github.com/liamzebedee/feevote-go/dashboard"
	"github.com/urfave/cli/v2"
)

func RunDashboard(cmdCtx *cli.Context) error {
	port := cmdCtx.Int("port")
	dbPath := cmdCtx.String("db")
	interval := cmdCtx.Duration("interval")
	config := newSourceConfig(cmdCtx)
	logger := core.NewLogger("feevoted", "")

	if interval <= 0 {
		return fmt.Errorf("invalid interval: %s", interval)
	}

	// Snapshot cache.
	db, err := store.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer db.Close()
	snapshots := store.NewStore(db, store.EndpointsStore{
		LedgerURL:   config.ledger.URL,
		RegistryURL: config.registry.URL,
	})

	// Monitor.
	monitor := feevote.NewMonitor(newCycle(config), snapshots)
	monitor.OnUpdate = func(agg feevote.Aggregation) {
		for _, view := range agg.Views() {
			if view.Markers.Shifted() {
				logger.Printf("%s: 50%% mark votes %v %s, current %s %s\n", view.Label, view.Markers.MedianVoting, view.Unit, view.CurrentString(), view.Unit)
			}
		}
	}
	if err := monitor.Restore(); err != nil {
		logger.Printf("Failed to restore snapshot: %s\n", err)
	}

	// Handle process signals.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Println("Shutting down...")
	}()

	srv, err := dashboard.NewDashboardServer(monitor, port, config.timeout)
	if err != nil {
		return err
	}

	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		monitor.Start(ctx, interval)
	}()

	err = srv.Start(ctx)

	// Let in-flight cycles finish before the database is closed.
	stop()
	<-monitorDone
	monitor.Wait()
	return err
}
