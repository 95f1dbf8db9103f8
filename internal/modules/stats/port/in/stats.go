package in

import (
	"context"
	"time"

	"efforts/internal/modules/stats/dto"
)

type Usecase interface {
	LoadStats(ctx context.Context, period string) (dto.ComparisonOutput, error)
	LoadAll(ctx context.Context) error
	Daily() (dto.ComparisonOutput, bool)
	Weekly() (dto.ComparisonOutput, bool)
	Monthly() (dto.ComparisonOutput, bool)
	LastError() error
	SessionsInRange(ctx context.Context, start, end time.Time) ([]dto.SessionRow, error)
}
