package main

import (
	"context"

	"github.com/spf13/cobra"

	foiapersistence "github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect import sessions",
	}
	cmd.AddCommand(newSessionsListCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List import sessions as JSON lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsList(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum sessions to list")
	return cmd
}

func runSessionsList(ctx context.Context, limit int) error {
	ctx, pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := foiapersistence.NewSessionRepository()
	sessions, total, err := repo.List(ctx, &session.FindParams{Limit: limit})
	if err != nil {
		return withCode(exitDB, err)
	}
	for _, s := range sessions {
		line := map[string]any{
			"id":            s.ID().String(),
			"filename":      s.Filename(),
			"status":        string(s.Status()),
			"total_records": s.TotalRecords(),
			"created_at":    s.CreatedAt(),
		}
		if s.ErrorMessage() != nil {
			line["error_message"] = *s.ErrorMessage()
		}
		if err := writeJSONLine(line); err != nil {
			return err
		}
	}
	return writeJSONLine(map[string]any{"total": total})
}
