package domain

type pointsRule struct {
	base int
	// tenths of a point earned per minute
	rate int
}

var pointsRules = map[Quality]pointsRule{
	QualityPoor:   {base: 5, rate: 1},
	QualityNormal: {base: 20, rate: 2},
	QualityGreat:  {base: 40, rate: 3},
	QualityDeep:   {base: 60, rate: 4},
}

// Points scores a completed, rated session: a base by quality plus
// floor(actualDuration × rate). Anything else scores zero.
func Points(s Session) int {
	if s.Status != StatusCompleted {
		return 0
	}
	rule, ok := pointsRules[s.Quality]
	if !ok {
		return 0
	}
	minutes := s.ActualDuration
	if minutes < 0 {
		minutes = 0
	}
	return rule.base + minutes*rule.rate/10
}

func (s Session) Points() int {
	return Points(s)
}
