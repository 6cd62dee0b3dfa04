package foiaupdate

import (
	"time"

	"github.com/google/uuid"
)

// FOIAUpdate is the undo record for one applied field mutation. OldValue
// is the registry value observed immediately before the write, which makes
// rollback exact even when sessions interleave on the same property.
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

func New(sessionID, propertyID uuid.UUID, fieldName string, oldValue, newValue *string) FOIAUpdate {
	return FOIAUpdate{
		ID:         uuid.New(),
		SessionID:  sessionID,
		PropertyID: propertyID,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
		AppliedAt:  time.Now().UTC(),
	}
}
