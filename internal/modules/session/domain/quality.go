package domain

import (
	"fmt"
	"strings"

	apperrors "efforts/internal/platform/errors"
)

// Quality rates focus depth: poor < normal < great < deep.
type Quality string

const (
	QualityNone   Quality = ""
	QualityPoor   Quality = "poor"
	QualityNormal Quality = "normal"
	QualityGreat  Quality = "great"
	QualityDeep   Quality = "deep"
)

// Qualities lists every rating in ascending order.
var Qualities = []Quality{QualityPoor, QualityNormal, QualityGreat, QualityDeep}

func ParseQuality(raw string) (Quality, error) {
	q := Quality(strings.ToLower(strings.TrimSpace(raw)))
	if err := q.Validate(); err != nil {
		return QualityNone, err
	}
	return q, nil
}

func (q Quality) Validate() error {
	switch q {
	case QualityPoor, QualityNormal, QualityGreat, QualityDeep:
		return nil
	default:
		return fmt.Errorf("%w: unsupported quality %q", apperrors.ErrInvalidInput, string(q))
	}
}

func (q Quality) Emoji() string {
	switch q {
	case QualityPoor:
		return "💩"
	case QualityNormal:
		return "⚖️"
	case QualityGreat:
		return "🔥"
	case QualityDeep:
		return "💠"
	default:
		return "❓"
	}
}

// Label is the capitalised quality name, empty for unrated sessions.
func (q Quality) Label() string {
	if q == QualityNone {
		return ""
	}
	return strings.ToUpper(string(q[:1])) + string(q[1:])
}
