package matching

import "strings"

// Secondary-unit designators: the designator and its identifier are
// stripped so "100 Main St Suite 4B" and "100 Main St" normalize equal.
var unitDesignators = map[string]bool{
	"apt":       true,
	"apartment": true,
	"unit":      true,
	"suite":     true,
	"ste":       true,
	"bldg":      true,
	"building":  true,
	"fl":        true,
	"floor":     true,
	"rm":        true,
	"room":      true,
}

var suffixAbbreviations = map[string]string{
	"street":    "st",
	"avenue":    "ave",
	"av":        "ave",
	"boulevard": "blvd",
	"drive":     "dr",
	"lane":      "ln",
	"road":      "rd",
	"court":     "ct",
	"place":     "pl",
	"circle":    "cir",
	"highway":   "hwy",
	"parkway":   "pkwy",
	"terrace":   "ter",
	"north":     "n",
	"south":     "s",
	"east":      "e",
	"west":      "w",
	"northeast": "ne",
	"northwest": "nw",
	"southeast": "se",
	"southwest": "sw",
}

// NormalizeAddress case-folds, drops punctuation, strips unit/suite
// tokens, abbreviates common suffixes and collapses whitespace.
func NormalizeAddress(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if unitDesignators[tok] {
			// skip the designator and its identifier
			i++
			continue
		}
		if abbr, ok := suffixAbbreviations[tok]; ok {
			tok = abbr
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

func addressTokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
