package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence/models"
	"github.com/Dcavise/SEEK-sub001/pkg/composables"
	"github.com/Dcavise/SEEK-sub001/pkg/repo"
)

const foiaUpdateColumns = `id, session_id, property_id, field_name, old_value,
	new_value, applied_at, reverted, reverted_at`

type FOIAUpdateRepository struct{}

func NewFOIAUpdateRepository() foiaupdate.Repository {
	return &FOIAUpdateRepository{}
}

func (r *FOIAUpdateRepository) Create(ctx context.Context, u foiaupdate.FOIAUpdate) (foiaupdate.FOIAUpdate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return foiaupdate.FOIAUpdate{}, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO foia_updates (id, session_id, property_id, field_name, old_value, new_value, applied_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING `+foiaUpdateColumns,
		u.ID, u.SessionID, u.PropertyID, u.FieldName, u.OldValue, u.NewValue, u.AppliedAt,
	)
	created, err := scanFOIAUpdate(row)
	if err != nil {
		return foiaupdate.FOIAUpdate{}, gerrors.Wrap(err, "insert foia update")
	}
	return created, nil
}

func (r *FOIAUpdateRepository) ExistsActive(ctx context.Context, sessionID, propertyID uuid.UUID, fieldName string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM foia_updates
			WHERE session_id=$1 AND property_id=$2 AND field_name=$3 AND NOT reverted
		)`,
		sessionID, propertyID, fieldName,
	).Scan(&exists); err != nil {
		return false, gerrors.Wrap(err, "check active foia update")
	}
	return exists, nil
}

func (r *FOIAUpdateRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, params *foiaupdate.FindParams) ([]foiaupdate.FOIAUpdate, int64, error) {
	if params == nil {
		params = &foiaupdate.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM foia_updates WHERE session_id=$1`, sessionID,
	).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count foia updates")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	query := `SELECT ` + foiaUpdateColumns + ` FROM foia_updates
		WHERE session_id=$1
		ORDER BY applied_at ASC, id ASC ` +
		repo.FormatLimitOffset(limit, params.Offset)
	rows, err := tx.Query(ctx, query, sessionID)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list foia updates")
	}
	defer rows.Close()

	var out []foiaupdate.FOIAUpdate
	for rows.Next() {
		u, err := scanFOIAUpdate(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *FOIAUpdateRepository) ListActiveBySession(ctx context.Context, sessionID uuid.UUID) ([]foiaupdate.FOIAUpdate, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT `+foiaUpdateColumns+` FROM foia_updates
		WHERE session_id=$1 AND NOT reverted
		ORDER BY applied_at ASC, id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "list active foia updates")
	}
	defer rows.Close()

	var out []foiaupdate.FOIAUpdate
	for rows.Next() {
		u, err := scanFOIAUpdate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *FOIAUpdateRepository) MarkReverted(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE foia_updates SET reverted=true, reverted_at=now() WHERE id=$1 AND NOT reverted`,
		id,
	)
	if err != nil {
		return gerrors.Wrap(err, "mark foia update reverted")
	}
	return nil
}

func scanFOIAUpdate(row pgx.Row) (foiaupdate.FOIAUpdate, error) {
	var m models.FOIAUpdate
	if err := row.Scan(
		&m.ID, &m.SessionID, &m.PropertyID, &m.FieldName, &m.OldValue,
		&m.NewValue, &m.AppliedAt, &m.Reverted, &m.RevertedAt,
	); err != nil {
		return foiaupdate.FOIAUpdate{}, err
	}
	return toDomainFOIAUpdate(&m), nil
}
