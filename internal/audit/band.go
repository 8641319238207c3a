package audit

import "strings"

// Band is a coarse rating derived from the 0-100 score.
type Band string

const (
	BandCritical   Band = "critical"
	BandFoundation Band = "foundation"
	BandGood       Band = "good"
	BandExcellent  Band = "excellent"
)

// BandFor maps a score onto its band: 0-40 critical, 41-70 foundation,
// 71-85 good, 86-100 excellent.
func BandFor(score int) Band {
	switch {
	case score >= 86:
		return BandExcellent
	case score >= 71:
		return BandGood
	case score >= 41:
		return BandFoundation
	default:
		return BandCritical
	}
}

// Label is the upper-case band name used in reports.
func (b Band) Label() string {
	return strings.ToUpper(string(b))
}

// Summary is a short English verdict for the band, usable as an i18n key.
func (b Band) Summary() string {
	switch b {
	case BandExcellent:
		return "Site optimized for AI search engines!"
	case BandGood:
		return "Some optimizations still possible"
	case BandFoundation:
		return "Implement the missing optimizations"
	default:
		return "The site is not optimized for AI search"
	}
}

// CI annotation levels.
const (
	LevelNotice  = "notice"
	LevelWarning = "warning"
	LevelError   = "error"
)

// AnnotationLevel returns notice for scores of 71 and up, warning for 41-70
// and error for 40 and below.
func AnnotationLevel(score int) string {
	switch {
	case score >= 71:
		return LevelNotice
	case score >= 41:
		return LevelWarning
	default:
		return LevelError
	}
}
