package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	foiapersistence "github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence"
	registrypersistence "github.com/Dcavise/SEEK-sub001/modules/registry/infrastructure/persistence"

	"github.com/Dcavise/SEEK-sub001/modules/foia/services"
	"github.com/Dcavise/SEEK-sub001/pkg/configuration"
	"github.com/Dcavise/SEEK-sub001/pkg/logging"
)

type rollbackCmdOptions struct {
	sessionID uuid.UUID
	apply     bool
	yes       bool
}

func newRollbackCmd() *cobra.Command {
	var opts rollbackCmdOptions
	var sessionArg string

	cmd := &cobra.Command{
		Use:   "rollback",
		Short: "Revert the updates applied by a session (dry-run by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRollback(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&sessionArg, "session", "", "Session UUID (required)")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Actually revert (default is dry-run)")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "Confirm destructive rollback")
	_ = cmd.MarkFlagRequired("session")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(strings.TrimSpace(sessionArg))
		if err != nil {
			return withCode(exitUsage, fmt.Errorf("invalid --session: %w", err))
		}
		opts.sessionID = id
		return nil
	}

	return cmd
}

func runRollback(ctx context.Context, opts rollbackCmdOptions) error {
	if opts.apply && !opts.yes {
		return withCode(exitSafetyNet, fmt.Errorf("rollback --apply requires --yes"))
	}

	ctx, pool, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	sessionRepo := foiapersistence.NewSessionRepository()
	updateRepo := foiapersistence.NewFOIAUpdateRepository()

	if _, err := sessionRepo.GetByID(ctx, opts.sessionID); err != nil {
		return withCode(exitValidation, err)
	}

	if !opts.apply {
		active, err := updateRepo.ListActiveBySession(ctx, opts.sessionID)
		if err != nil {
			return withCode(exitDB, err)
		}
		for _, u := range active {
			if err := writeJSONLine(map[string]any{
				"update_id":   u.ID.String(),
				"property_id": u.PropertyID.String(),
				"field_name":  u.FieldName,
				"old_value":   u.OldValue,
				"new_value":   u.NewValue,
			}); err != nil {
				return err
			}
		}
		return writeJSONLine(map[string]any{
			"dry_run":      true,
			"session_id":   opts.sessionID.String(),
			"active_count": len(active),
		})
	}

	conf := configuration.Use()
	rollback := services.NewRollbackService(
		sessionRepo, updateRepo,
		registrypersistence.NewPropertyRepository(),
		logging.ConsoleLogger(conf.LogrusLogLevel()),
	)
	result, err := rollback.Rollback(ctx, opts.sessionID)
	if err != nil {
		return withCode(exitDBWrite, err)
	}
	return writeJSONLine(result)
}
