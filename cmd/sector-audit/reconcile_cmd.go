package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/tanzim-io/tanzim/modules/hierarchy/infrastructure/persistence"
	"github.com/tanzim-io/tanzim/modules/hierarchy/services"
	"github.com/tanzim-io/tanzim/pkg/composables"
	"github.com/tanzim-io/tanzim/pkg/configuration"
)

type reconcileOutput struct {
	Scanned    int      `json:"scanned"`
	Relinked   int      `json:"relinked"`
	Unresolved []string `json:"unresolved,omitempty"`
	DryRun     bool     `json:"dry_run"`
	DurationMS int64    `json:"duration_ms"`
}

func newReconcileCmd() *cobra.Command {
	var (
		apply     bool
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Relink unlinked sector nodes through their mirror ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := configuration.Use()
			if batchSize <= 0 {
				batchSize = conf.SectorAudit.BatchSize
			}

			pool, err := connectDB(cmd.Context(), conf)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx := composables.WithPool(cmd.Context(), pool)
			linker := services.NewSectorLinker(persistence.NewHierarchyRepository(), conf.Logger())

			start := time.Now()
			report, err := linker.Reconcile(ctx, batchSize, apply)
			if err != nil {
				return err
			}

			out := reconcileOutput{
				Scanned:    report.Scanned,
				Relinked:   report.Relinked,
				DryRun:     !apply,
				DurationMS: time.Since(start).Milliseconds(),
			}
			for _, id := range report.Unresolved {
				out.Unresolved = append(out.Unresolved, id.String())
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "write relinks instead of reporting them")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "max nodes examined per pass (default from SECTOR_AUDIT_BATCH_SIZE)")
	return cmd
}

func connectDB(ctx context.Context, conf *configuration.Configuration) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	return pool, nil
}
