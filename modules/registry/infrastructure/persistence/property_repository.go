package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dcavise/SEEK-sub001/modules/registry/domain/aggregates/property"
	"github.com/Dcavise/SEEK-sub001/pkg/composables"
	"github.com/Dcavise/SEEK-sub001/pkg/repo"
)

const propertyColumns = `id, address, normalized_address, city, state, zip,
	fire_sprinklers, zoned_by_right, occupancy_class, created_at, updated_at`

type PropertyRepository struct{}

func NewPropertyRepository() property.Repository {
	return &PropertyRepository{}
}

func (r *PropertyRepository) GetPaginated(ctx context.Context, params *property.FindParams) ([]property.Property, int64, error) {
	if params == nil {
		params = &property.FindParams{}
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := "TRUE"
	args := []any{}
	if q := strings.TrimSpace(params.Q); q != "" {
		where = "address ILIKE $1"
		args = append(args, "%"+q+"%")
	}

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, gerrors.Wrap(err, "count properties")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM properties WHERE %s ORDER BY address ASC %s`,
		propertyColumns, where, repo.FormatLimitOffset(limit, offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, gerrors.Wrap(err, "query properties")
	}
	defer rows.Close()

	out := make([]property.Property, 0, limit)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (property.Property, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return property.Property{}, err
	}

	row := tx.QueryRow(ctx, `SELECT `+propertyColumns+` FROM properties WHERE id=$1`, id)
	p, err := scanProperty(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return property.Property{}, property.ErrNotFound
	}
	if err != nil {
		return property.Property{}, gerrors.Wrap(err, "get property")
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p property.Property) (property.Property, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return property.Property{}, err
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO properties (address, normalized_address, city, state, zip,
			fire_sprinklers, zoned_by_right, occupancy_class)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+propertyColumns,
		p.Address(), p.NormalizedAddress(), p.City(), p.State(), p.Zip(),
		p.FireSprinklers(), p.ZonedByRight(), p.OccupancyClass(),
	)
	created, err := scanProperty(row)
	if err != nil {
		return property.Property{}, gerrors.Wrap(err, "insert property")
	}
	return created, nil
}

func (r *PropertyRepository) ListAddresses(ctx context.Context) ([]property.AddressEntry, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `SELECT id, address, normalized_address FROM properties`)
	if err != nil {
		return nil, gerrors.Wrap(err, "list property addresses")
	}
	defer rows.Close()

	var out []property.AddressEntry
	for rows.Next() {
		var e property.AddressEntry
		if err := rows.Scan(&e.PropertyID, &e.Address, &e.NormalizedAddress); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PropertyRepository) ReadField(ctx context.Context, id uuid.UUID, field string) (*string, error) {
	if !property.ValidField(field) {
		return nil, property.ErrUnknownField
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	// field is whitelisted above, never caller-controlled SQL.
	var value *string
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM properties WHERE id=$1`, field), id).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, property.ErrNotFound
	}
	if err != nil {
		return nil, gerrors.Wrapf(err, "read property field %s", field)
	}
	return value, nil
}

func (r *PropertyRepository) WriteField(ctx context.Context, id uuid.UUID, field string, value *string) error {
	if !property.ValidField(field) {
		return property.ErrUnknownField
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE properties SET %s=$1, updated_at=now() WHERE id=$2`, field),
		value, id,
	)
	if err != nil {
		return gerrors.Wrapf(err, "write property field %s", field)
	}
	if tag.RowsAffected() == 0 {
		return property.ErrNotFound
	}
	return nil
}

func scanProperty(row pgx.Row) (property.Property, error) {
	var (
		id                uuid.UUID
		address           string
		normalizedAddress string
		city, state, zip  string
		fireSprinklers    *string
		zonedByRight      *string
		occupancyClass    *string
		createdAt         pgTimestamp
		updatedAt         pgTimestamp
	)
	if err := row.Scan(
		&id, &address, &normalizedAddress, &city, &state, &zip,
		&fireSprinklers, &zonedByRight, &occupancyClass, &createdAt, &updatedAt,
	); err != nil {
		return property.Property{}, err
	}
	return property.Hydrate(
		id, address, normalizedAddress, city, state, zip,
		fireSprinklers, zonedByRight, occupancyClass,
		createdAt.Time, updatedAt.Time,
	), nil
}
