package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/pumpstream/internal/eventlistener"
	"github.com/rovshanmuradov/pumpstream/internal/events"
	"github.com/rovshanmuradov/pumpstream/internal/export"
	"github.com/rovshanmuradov/pumpstream/internal/protocol"
	"github.com/rovshanmuradov/pumpstream/internal/utils/metrics"
)

func newStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Subscribe to program logs and print decoded events",
		Args:  cobra.NoArgs,
		RunE:  runStream,
	}

	cmd.Flags().String("ws-url", "", "Solana websocket endpoint")
	cmd.Flags().String("commitment", "", "processed, confirmed or finalized")
	cmd.Flags().StringSlice("programs", nil, "programs to follow (pump, pumpamm or base58 id)")
	cmd.Flags().String("events", "", "event filter: all, none, pump_only, pumpamm_only or a comma list")
	cmd.Flags().Bool("include-failed", false, "dispatch events from failed transactions")
	cmd.Flags().String("metrics-addr", "", "serve prometheus metrics on this address")
	cmd.Flags().String("csv", "", "append trade, buy and sell events to this CSV file")
	cmd.Flags().String("csv-mint", "", "only export bonding curve trades of this mint")
	cmd.Flags().String("csv-side", "", "only export one side: buy or sell")
	return cmd
}

func runStream(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	programs, err := cfg.ResolvePrograms(protocol.NewDefaultRegistry(log.Logger))
	if err != nil {
		return err
	}
	kinds, err := cfg.Kinds()
	if err != nil {
		return err
	}
	commitment, err := cfg.CommitmentType()
	if err != nil {
		return err
	}

	bus := events.NewBus(log.Logger)
	sub := bus.Subscribe(kinds, events.NewLoggingHandler(log.Logger))
	defer sub.Unsubscribe()

	if cfg.ExportCSV != "" {
		opts, err := cfg.ExportOptions()
		if err != nil {
			return err
		}
		exporter, err := export.NewTradeExporter(cfg.ExportCSV, opts, log.Logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := exporter.Close(); err != nil {
				log.LogError("Failed to close CSV export", err)
			}
		}()
		exportSub := bus.Subscribe(exporter.Kinds(), exporter)
		defer exportSub.Unsubscribe()
	}

	collector := metrics.NewCollector()
	source := eventlistener.NewWSSource(cfg.WebSocketURL, commitment, cfg.ConnectTimeout, log.WithComponent("source"))

	log.Info("Starting stream",
		zap.String("endpoint", cfg.WebSocketURL),
		zap.String("commitment", string(commitment)),
		zap.Stringer("events", kinds),
		zap.Int("programs", len(programs)))

	g, gCtx := errgroup.WithContext(ctx)

	for _, p := range programs {
		interest := bus.Kinds() & events.ForProgram(p.ID)
		if interest == events.NoKinds {
			log.Warn("No selected events belong to program, skipping",
				zap.String("program", p.Name))
			continue
		}

		l := eventlistener.New(eventlistener.Config{
			Name:                p.Name,
			Program:             p.ID,
			Kinds:               interest,
			IncludeFailed:       cfg.IncludeFailed,
			DedupSize:           cfg.DedupSize,
			DedupTTL:            cfg.DedupTTL,
			ReconnectMaxElapsed: cfg.ReconnectMaxElapsed,
		}, source, bus, log.WithComponent("listener"), eventlistener.WithMetrics(collector))

		g.Go(func() error {
			if err := l.Run(gCtx); err != nil {
				return fmt.Errorf("%s listener: %w", p.Name, err)
			}
			return nil
		})
	}

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return collector.Serve(gCtx, cfg.MetricsAddr, log.Logger)
		})
	}

	err = g.Wait()
	if err != nil && ctx.Err() == nil {
		log.LogError("Stream stopped", err)
		return err
	}
	log.Info("Stream stopped")
	return nil
}
