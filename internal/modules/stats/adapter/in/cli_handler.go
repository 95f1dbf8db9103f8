package in

import (
	"context"

	statsdto "efforts/internal/modules/stats/dto"
	statsin "efforts/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Compare loads the requested periods, defaulting to all of them.
func (h CLIHandler) Compare(ctx context.Context, periods ...string) ([]statsdto.ComparisonOutput, error) {
	if len(periods) == 0 {
		periods = []string{"day", "week", "month"}
	}
	out := make([]statsdto.ComparisonOutput, 0, len(periods))
	for _, p := range periods {
		cmp, err := h.usecase.LoadStats(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, cmp)
	}
	return out, nil
}
