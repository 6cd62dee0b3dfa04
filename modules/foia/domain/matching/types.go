package matching

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusMatched   Status = "matched"
	StatusAmbiguous Status = "ambiguous"
	StatusUnmatched Status = "unmatched"
)

// FieldValue is one compliance field carried by a source record.
type FieldValue struct {
	Name  string
	Value *string
}

// ComplianceValues holds the attributes a FOIA record may apply to a
// property. Nil means the source file did not supply the field.
type ComplianceValues struct {
	FireSprinklers *string
	ZonedByRight   *string
	OccupancyClass *string
}

func (c ComplianceValues) Fields() []FieldValue {
	out := make([]FieldValue, 0, 3)
	if c.FireSprinklers != nil {
		out = append(out, FieldValue{Name: "fire_sprinklers", Value: c.FireSprinklers})
	}
	if c.ZonedByRight != nil {
		out = append(out, FieldValue{Name: "zoned_by_right", Value: c.ZonedByRight})
	}
	if c.OccupancyClass != nil {
		out = append(out, FieldValue{Name: "occupancy_class", Value: c.OccupancyClass})
	}
	return out
}

func (c ComplianceValues) IsEmpty() bool {
	return c.FireSprinklers == nil && c.ZonedByRight == nil && c.OccupancyClass == nil
}

// SourceRecord is one row of an uploaded compliance file. RecordRef is an
// opaque caller-supplied reference (typically the source line number).
type SourceRecord struct {
	RecordRef  string
	Address    string
	City       string
	State      string
	Zip        string
	Compliance ComplianceValues
}

// MatchResult pairs a source record with at most one registry candidate.
// Confidence is set whenever a candidate was considered, including
// ambiguous and below-threshold outcomes.
type MatchResult struct {
	RecordRef     string
	SourceAddress string
	PropertyID    *uuid.UUID
	Confidence    *float64
	Status        Status
	ErrorReason   *string
	Compliance    ComplianceValues
}

// StoredMatchResult is a MatchResult persisted to the audit store.
type StoredMatchResult struct {
	MatchResult

	ID        uuid.UUID
	SessionID uuid.UUID
	CreatedAt time.Time
}
