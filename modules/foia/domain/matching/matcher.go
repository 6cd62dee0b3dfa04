package matching

import (
	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	DefaultMinConfidence      = 0.70
	DefaultAmbiguityTolerance = 0.02
)

// RegistryEntry is one canonical property address visible to the matcher.
type RegistryEntry struct {
	PropertyID uuid.UUID
	Address    string
}

type snapshotEntry struct {
	propertyID uuid.UUID
	normalized string
	tokens     []string
}

// RegistrySnapshot is a read-only index of the registry built once per
// pipeline run and shared across all records of a session.
type RegistrySnapshot struct {
	entries      []snapshotEntry
	byNormalized map[string][]uuid.UUID
}

func NewRegistrySnapshot(entries []RegistryEntry) *RegistrySnapshot {
	snap := &RegistrySnapshot{
		entries:      make([]snapshotEntry, 0, len(entries)),
		byNormalized: make(map[string][]uuid.UUID, len(entries)),
	}
	for _, e := range entries {
		normalized := NormalizeAddress(e.Address)
		if normalized == "" {
			continue
		}
		snap.entries = append(snap.entries, snapshotEntry{
			propertyID: e.PropertyID,
			normalized: normalized,
			tokens:     addressTokens(normalized),
		})
		snap.byNormalized[normalized] = append(snap.byNormalized[normalized], e.PropertyID)
	}
	return snap
}

func (s *RegistrySnapshot) Len() int { return len(s.entries) }

// Matcher classifies a source record against a registry snapshot. It is a
// pure function of its inputs; callers persist the result.
type Matcher struct {
	minConfidence      float64
	ambiguityTolerance float64
}

func NewMatcher(minConfidence, ambiguityTolerance float64) *Matcher {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	if ambiguityTolerance <= 0 {
		ambiguityTolerance = DefaultAmbiguityTolerance
	}
	return &Matcher{minConfidence: minConfidence, ambiguityTolerance: ambiguityTolerance}
}

func (m *Matcher) Match(record SourceRecord, snap *RegistrySnapshot) MatchResult {
	result := MatchResult{
		RecordRef:     record.RecordRef,
		SourceAddress: record.Address,
		Compliance:    record.Compliance,
	}

	normalized := NormalizeAddress(record.Address)
	if normalized == "" {
		result.Status = StatusUnmatched
		result.ErrorReason = ptr("missing address")
		return result
	}

	// Exact normalized matches short-circuit fuzzy scoring. More than one
	// property at the same normalized address is inherently ambiguous.
	if ids := snap.byNormalized[normalized]; len(ids) > 0 {
		confidence := 1.0
		result.Confidence = &confidence
		if len(ids) > 1 {
			result.Status = StatusAmbiguous
			result.ErrorReason = ptr("ambiguous match")
			return result
		}
		result.Status = StatusMatched
		result.PropertyID = &ids[0]
		return result
	}

	tokens := addressTokens(normalized)
	var (
		best       float64
		bestID     uuid.UUID
		runnerUp   float64
		runnerUpID uuid.UUID
	)
	for _, entry := range snap.entries {
		score := similarity(normalized, tokens, entry)
		if score > best {
			if entry.propertyID != bestID {
				runnerUp, runnerUpID = best, bestID
			}
			best, bestID = score, entry.propertyID
		} else if score > runnerUp && entry.propertyID != bestID {
			runnerUp, runnerUpID = score, entry.propertyID
		}
	}

	if bestID == uuid.Nil {
		result.Status = StatusUnmatched
		result.ErrorReason = ptr("no match found")
		return result
	}

	result.Confidence = &best
	if best < m.minConfidence {
		result.Status = StatusUnmatched
		result.ErrorReason = ptr("no candidate met the confidence threshold")
		return result
	}
	if runnerUpID != uuid.Nil && runnerUp >= best-m.ambiguityTolerance {
		result.Status = StatusAmbiguous
		result.ErrorReason = ptr("ambiguous match")
		return result
	}

	result.Status = StatusMatched
	result.PropertyID = &bestID
	return result
}

// similarity blends Levenshtein closeness with token-set overlap; both
// are in [0,1] and the blend keeps transposed-token addresses scorable.
func similarity(normalized string, tokens []string, entry snapshotEntry) float64 {
	lev := levenshteinSimilarity(normalized, entry.normalized)
	overlap := tokenOverlap(tokens, entry.tokens)
	return 0.5*lev + 0.5*overlap
}

func levenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	dist := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, tok := range a {
		set[tok] = true
	}
	union := len(set)
	shared := 0
	for _, tok := range b {
		if set[tok] {
			shared++
			set[tok] = false
			continue
		}
		union++
	}
	return float64(shared) / float64(union)
}

func ptr[T any](v T) *T { return &v }
