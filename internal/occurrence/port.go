package occurrence

import (
	"context"
	"siat-api/internal/logs"
)

type OccurrenceServicePort interface {
	Create(ctx context.Context, in Input) (uint, error)
	Update(ctx context.Context, id uint, in Input) (uint, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
}

type AuditPort interface {
	Record(log logs.SystemLog, metadata interface{})
}
