package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Compliance field names accepted by UpdateField and the FOIA pipeline.
const (
	FieldFireSprinklers = "fire_sprinklers"
	FieldZonedByRight   = "zoned_by_right"
	FieldOccupancyClass = "occupancy_class"
)

func ValidField(name string) bool {
	switch name {
	case FieldFireSprinklers, FieldZonedByRight, FieldOccupancyClass:
		return true
	}
	return false
}

type Property struct {
	id                uuid.UUID
	address           string
	normalizedAddress string
	city              string
	state             string
	zip               string
	fireSprinklers    *string
	zonedByRight      *string
	occupancyClass    *string
	createdAt         time.Time
	updatedAt         time.Time
}

func New(address, normalizedAddress, city, state, zip string) Property {
	return Property{
		address:           strings.TrimSpace(address),
		normalizedAddress: normalizedAddress,
		city:              strings.TrimSpace(city),
		state:             strings.TrimSpace(state),
		zip:               strings.TrimSpace(zip),
	}
}

func Hydrate(
	id uuid.UUID,
	address string,
	normalizedAddress string,
	city string,
	state string,
	zip string,
	fireSprinklers *string,
	zonedByRight *string,
	occupancyClass *string,
	createdAt time.Time,
	updatedAt time.Time,
) Property {
	return Property{
		id:                id,
		address:           address,
		normalizedAddress: normalizedAddress,
		city:              city,
		state:             state,
		zip:               zip,
		fireSprinklers:    fireSprinklers,
		zonedByRight:      zonedByRight,
		occupancyClass:    occupancyClass,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

func (p Property) ID() uuid.UUID             { return p.id }
func (p Property) Address() string           { return p.address }
func (p Property) NormalizedAddress() string { return p.normalizedAddress }
func (p Property) City() string              { return p.city }
func (p Property) State() string             { return p.state }
func (p Property) Zip() string               { return p.zip }
func (p Property) FireSprinklers() *string   { return p.fireSprinklers }
func (p Property) ZonedByRight() *string     { return p.zonedByRight }
func (p Property) OccupancyClass() *string   { return p.occupancyClass }
func (p Property) CreatedAt() time.Time      { return p.createdAt }
func (p Property) UpdatedAt() time.Time      { return p.updatedAt }
func (p Property) IsZero() bool              { return p.id == uuid.Nil && p.address == "" }

// Field returns the current value of a compliance field.
func (p Property) Field(name string) (*string, bool) {
	switch name {
	case FieldFireSprinklers:
		return p.fireSprinklers, true
	case FieldZonedByRight:
		return p.zonedByRight, true
	case FieldOccupancyClass:
		return p.occupancyClass, true
	}
	return nil, false
}
