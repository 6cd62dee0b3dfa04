package property

import (
	"context"

	"github.com/google/uuid"

	"github.com/Dcavise/SEEK-sub001/pkg/serrors"
)

var (
	ErrNotFound     = serrors.NewError("PROPERTY_NOT_FOUND", "property not found", "")
	ErrUnknownField = serrors.NewError("PROPERTY_UNKNOWN_FIELD", "unknown compliance field", "")
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

// AddressEntry is the slim projection used to build matcher snapshots.
type AddressEntry struct {
	PropertyID        uuid.UUID
	Address           string
	NormalizedAddress string
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Property, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Property, error)
	Create(ctx context.Context, p Property) (Property, error)
	ListAddresses(ctx context.Context) ([]AddressEntry, error)

	// ReadField and WriteField are the registry boundary the FOIA
	// pipeline mutates through. Both reject field names outside the
	// compliance whitelist with ErrUnknownField.
	ReadField(ctx context.Context, id uuid.UUID, field string) (*string, error)
	WriteField(ctx context.Context, id uuid.UUID, field string, value *string) error
}
