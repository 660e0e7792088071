package access

import "context"

type AccessLevelRepository interface {
	List(ctx context.Context) ([]AccessLevel, error)
	GetByID(ctx context.Context, id int64) (AccessLevel, error)
	Update(ctx context.Context, level AccessLevel) error
}
