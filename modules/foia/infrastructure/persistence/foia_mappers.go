package persistence

import (
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/foiaupdate"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/matching"
	"github.com/Dcavise/SEEK-sub001/modules/foia/domain/session"
	"github.com/Dcavise/SEEK-sub001/modules/foia/infrastructure/persistence/models"
)

func toDomainSession(row *models.ImportSession) session.ImportSession {
	return session.Hydrate(
		row.ID,
		row.Filename,
		row.OriginalFilename,
		row.TotalRecords,
		session.Status(row.Status),
		row.ErrorMessage,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainMatchResult(row *models.AddressMatchResult) matching.StoredMatchResult {
	return matching.StoredMatchResult{
		MatchResult: matching.MatchResult{
			RecordRef:     row.RecordRef,
			SourceAddress: row.SourceAddress,
			PropertyID:    row.MatchedPropertyID,
			Confidence:    row.Confidence,
			Status:        matching.Status(row.Status),
			ErrorReason:   row.ErrorReason,
			Compliance: matching.ComplianceValues{
				FireSprinklers: row.FireSprinklers,
				ZonedByRight:   row.ZonedByRight,
				OccupancyClass: row.OccupancyClass,
			},
		},
		ID:        row.ID,
		SessionID: row.SessionID,
		CreatedAt: row.CreatedAt,
	}
}

func toDomainFOIAUpdate(row *models.FOIAUpdate) foiaupdate.FOIAUpdate {
	return foiaupdate.FOIAUpdate{
		ID:         row.ID,
		SessionID:  row.SessionID,
		PropertyID: row.PropertyID,
		FieldName:  row.FieldName,
		OldValue:   row.OldValue,
		NewValue:   row.NewValue,
		AppliedAt:  row.AppliedAt,
		Reverted:   row.Reverted,
		RevertedAt: row.RevertedAt,
	}
}
