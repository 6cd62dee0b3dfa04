package models

import (
	"time"

	"github.com/google/uuid"
)

type ImportSession struct {
	ID               uuid.UUID
	Filename         string
	OriginalFilename string
	TotalRecords     int
	Status           string
	ErrorMessage     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type AddressMatchResult struct {
	ID                uuid.UUID
	SessionID         uuid.UUID
	RecordRef         string
	SourceAddress     string
	MatchedPropertyID *uuid.UUID
	Confidence        *float64
	Status            string
	ErrorReason       *string
	FireSprinklers    *string
	ZonedByRight      *string
	OccupancyClass    *string
	CreatedAt         time.Time
}

type FOIAUpdate struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	PropertyID uuid.UUID
	FieldName  string
	OldValue   *string
	NewValue   *string
	AppliedAt  time.Time
	Reverted   bool
	RevertedAt *time.Time
}
