package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arthouse/theaters/internal/config"
	"github.com/arthouse/theaters/internal/database"
	"github.com/arthouse/theaters/internal/repository"
)

const topStates = 15

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the theaters table",
}

var dbCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Print row counts, sample rows and column completeness as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.HasDatabase() {
			return fmt.Errorf("database not configured, missing %v", cfg.MissingDB())
		}
		db, err := database.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		report, err := checkDatabase(cmd.Context(), repository.NewTheaterRepo(db))
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	dbCmd.AddCommand(dbCheckCmd)
}

// tableInspector is the part of the theater repository db check reads.
type tableInspector interface {
	Count(ctx context.Context) (int64, error)
	Sample(ctx context.Context, limit int) ([]map[string]any, []string, error)
	CountByState(ctx context.Context) ([]repository.StateCount, error)
	Completeness(ctx context.Context) (repository.Completeness, error)
}

// DBReport is the JSON printed by db check.
type DBReport struct {
	Count        int64                   `json:"count"`
	Columns      []string                `json:"columns"`
	Sample       []map[string]any        `json:"sample"`
	TotalStates  int                     `json:"total_states"`
	TopStates    []repository.StateCount `json:"top_states"`
	Completeness repository.Completeness `json:"completeness"`
}

// checkDatabase runs the four inspection queries concurrently.
func checkDatabase(ctx context.Context, insp tableInspector) (DBReport, error) {
	var r DBReport
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := insp.Count(ctx)
		r.Count = n
		return err
	})
	g.Go(func() error {
		rows, cols, err := insp.Sample(ctx, 3)
		r.Sample, r.Columns = rows, cols
		return err
	})
	g.Go(func() error {
		states, err := insp.CountByState(ctx)
		if err != nil {
			return err
		}
		r.TotalStates = len(states)
		if len(states) > topStates {
			states = states[:topStates]
		}
		r.TopStates = states
		return nil
	})
	g.Go(func() error {
		c, err := insp.Completeness(ctx)
		r.Completeness = c
		return err
	})

	if err := g.Wait(); err != nil {
		return DBReport{}, err
	}
	return r, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
