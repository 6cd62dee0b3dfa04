package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence/models"
	"github.com/Dcavise/SEEK-sub001/pkg/composables"
	"github.com/Dcavise/SEEK-sub001/pkg/repo"
)

const sessionColumns = `id, filename, original_filename, total_records, status,
	error_message, created_at, updated_at`

type SessionRepository struct{}

func NewSessionRepository() session.Repository {
	return &SessionRepository{}
}

func (r *SessionRepository) Create(ctx context.Context, s session.ImportSession) (session.ImportSession, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return session.ImportSession{}, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO import_sessions (id, filename, original_filename, total_records, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING `+sessionColumns,
		s.ID(), s.Filename(), s.OriginalFilename(), s.TotalRecords(), string(s.Status()),
	)
	created, err := scanSession(row)
	if err != nil {
		return session.ImportSession{}, gerrors.Wrap(err, "insert import session")
	}
	return created, nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (session.ImportSession, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return session.ImportSession{}, err
	}

	row := tx.QueryRow(ctx, `SELECT `+sessionColumns+` FROM import_sessions WHERE id=$1`, id)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return session.ImportSession{}, session.ErrNotFound
	}
	if err != nil {
		return session.ImportSession{}, gerrors.Wrap(err, "get import session")
	}
	return s, nil
}

func (r *SessionRepository) List(ctx context.Context, params *session.FindParams) ([]session.ImportSession, int64, error) {
	if params == nil {
		params = &session.FindParams{}
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM import_sessions`).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count import sessions")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	query := `SELECT ` + sessionColumns + ` FROM import_sessions ORDER BY created_at DESC ` +
		repo.FormatLimitOffset(limit, params.Offset)
	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "list import sessions")
	}
	defer rows.Close()

	var out []session.ImportSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *SessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status session.Status, errorMessage *string) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE import_sessions
		SET status=$1, error_message=$2, updated_at=now()
		WHERE id=$3`,
		string(status), errorMessage, id,
	)
	if err != nil {
		return gerrors.Wrap(err, "update import session status")
	}
	if tag.RowsAffected() == 0 {
		return session.ErrNotFound
	}
	return nil
}

func scanSession(row pgx.Row) (session.ImportSession, error) {
	var m models.ImportSession
	if err := row.Scan(
		&m.ID, &m.Filename, &m.OriginalFilename, &m.TotalRecords, &m.Status,
		&m.ErrorMessage, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return session.ImportSession{}, err
	}
	return toDomainSession(&m), nil
}
