package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence/models"
	"github.com/Dcavise/SEEK-sub001/pkg/composables"
)

type MatchResultRepository struct{}

func NewMatchResultRepository() matching.Repository {
	return &MatchResultRepository{}
}

func (r *MatchResultRepository) CreateBatch(ctx context.Context, sessionID uuid.UUID, results []matching.MatchResult) error {
	if len(results) == 0 {
		return nil
	}
	return composables.InTx(ctx, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}
		for _, res := range results {
			if _, err := tx.Exec(txCtx, `
				INSERT INTO address_match_results (
					id, session_id, record_ref, source_address,
					matched_property_id, confidence, status, error_reason,
					fire_sprinklers, zoned_by_right, occupancy_class
				)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
				uuid.New(), sessionID, res.RecordRef, res.SourceAddress,
				res.PropertyID, res.Confidence, string(res.Status), res.ErrorReason,
				res.Compliance.FireSprinklers, res.Compliance.ZonedByRight, res.Compliance.OccupancyClass,
			); err != nil {
				return gerrors.Wrap(err, "insert match result")
			}
		}
		return nil
	})
}

func (r *MatchResultRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]matching.StoredMatchResult, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, session_id, record_ref, source_address,
			matched_property_id, confidence, status, error_reason,
			fire_sprinklers, zoned_by_right, occupancy_class, created_at
		FROM address_match_results
		WHERE session_id=$1
		ORDER BY created_at ASC, record_ref ASC`,
		sessionID,
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "list match results")
	}
	defer rows.Close()

	var out []matching.StoredMatchResult
	for rows.Next() {
		var m models.AddressMatchResult
		if err := rows.Scan(
			&m.ID, &m.SessionID, &m.RecordRef, &m.SourceAddress,
			&m.MatchedPropertyID, &m.Confidence, &m.Status, &m.ErrorReason,
			&m.FireSprinklers, &m.ZonedByRight, &m.OccupancyClass, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, toDomainMatchResult(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MatchResultRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM address_match_results WHERE session_id=$1`, sessionID,
	).Scan(&count); err != nil {
		return 0, gerrors.Wrap(err, "count match results")
	}
	return count, nil
}
