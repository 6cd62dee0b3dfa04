package matching

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func snapshotOf(addresses ...string) (*RegistrySnapshot, []uuid.UUID) {
	ids := make([]uuid.UUID, len(addresses))
	entries := make([]RegistryEntry, len(addresses))
	for i, addr := range addresses {
		ids[i] = uuid.New()
		entries[i] = RegistryEntry{PropertyID: ids[i], Address: addr}
	}
	return NewRegistrySnapshot(entries), ids
}

func TestMatcher_ExactMatch(t *testing.T) {
	snap, ids := snapshotOf("100 Main Street", "200 Oak Ave")
	m := NewMatcher(0, 0)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "100 MAIN ST"}, snap)
	require.Equal(t, StatusMatched, got.Status)
	require.NotNil(t, got.PropertyID)
	require.Equal(t, ids[0], *got.PropertyID)
	require.NotNil(t, got.Confidence)
	require.InDelta(t, 1.0, *got.Confidence, 1e-9)
	require.Nil(t, got.ErrorReason)
}

func TestMatcher_FuzzyMatch(t *testing.T) {
	snap, ids := snapshotOf("100 Main St N", "9800 Research Blvd")
	m := NewMatcher(0.70, 0.02)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "100 MAIN ST"}, snap)
	require.Equal(t, StatusMatched, got.Status)
	require.Equal(t, ids[0], *got.PropertyID)
	require.NotNil(t, got.Confidence)
	require.GreaterOrEqual(t, *got.Confidence, 0.70)
	require.Less(t, *got.Confidence, 1.0)
}

func TestMatcher_AmbiguousTiedCandidates(t *testing.T) {
	// Two candidates equidistant from the source address tie exactly.
	snap, _ := snapshotOf("100 Main St North", "100 Main St South")
	m := NewMatcher(0.70, 0.02)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "100 Main St"}, snap)
	require.Equal(t, StatusAmbiguous, got.Status)
	require.Nil(t, got.PropertyID)
	require.NotNil(t, got.Confidence)
	require.NotNil(t, got.ErrorReason)
	require.Equal(t, "ambiguous match", *got.ErrorReason)
}

func TestMatcher_AmbiguousDuplicateRegistryAddress(t *testing.T) {
	snap, _ := snapshotOf("100 Main St", "100 Main Street")
	m := NewMatcher(0.70, 0.02)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "100 Main St"}, snap)
	require.Equal(t, StatusAmbiguous, got.Status)
	require.Nil(t, got.PropertyID)
	require.Equal(t, "ambiguous match", *got.ErrorReason)
}

func TestMatcher_UnmatchedBelowThreshold(t *testing.T) {
	snap, _ := snapshotOf("100 Main St")
	m := NewMatcher(0.70, 0.02)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "742 Evergreen Terrace"}, snap)
	require.Equal(t, StatusUnmatched, got.Status)
	require.Nil(t, got.PropertyID)
	// a candidate was scored, so the confidence is reported
	require.NotNil(t, got.Confidence)
	require.Less(t, *got.Confidence, 0.70)
	require.NotNil(t, got.ErrorReason)
}

func TestMatcher_MissingAddress(t *testing.T) {
	snap, _ := snapshotOf("100 Main St")
	m := NewMatcher(0.70, 0.02)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "   "}, snap)
	require.Equal(t, StatusUnmatched, got.Status)
	require.Nil(t, got.PropertyID)
	require.Nil(t, got.Confidence)
	require.NotNil(t, got.ErrorReason)
	require.Equal(t, "missing address", *got.ErrorReason)
}

func TestMatcher_EmptyRegistry(t *testing.T) {
	snap := NewRegistrySnapshot(nil)
	m := NewMatcher(0.70, 0.02)

	got := m.Match(SourceRecord{RecordRef: "1", Address: "100 Main St"}, snap)
	require.Equal(t, StatusUnmatched, got.Status)
	require.Nil(t, got.Confidence)
	require.Equal(t, "no match found", *got.ErrorReason)
}

func TestMatcher_CompliancePassthrough(t *testing.T) {
	snap, _ := snapshotOf("100 Main St")
	m := NewMatcher(0.70, 0.02)
	yes := "yes"

	got := m.Match(SourceRecord{
		RecordRef:  "1",
		Address:    "100 Main St",
		Compliance: ComplianceValues{FireSprinklers: &yes},
	}, snap)
	require.Equal(t, StatusMatched, got.Status)
	require.Len(t, got.Compliance.Fields(), 1)
	require.Equal(t, "fire_sprinklers", got.Compliance.Fields()[0].Name)
}
