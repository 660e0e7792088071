package access

import (
	"context"

	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
)

// Checker answers (role, page) permission questions.
type Checker interface {
	Can(role employee.Role, page Page) bool
}

type AccessService interface {
	Checker
	List(ctx context.Context) ([]AccessLevelResponse, error)
	Update(ctx context.Context, req UpdateAccessLevelRequest) (AccessLevelResponse, error)
	Reload(ctx context.Context) error
}
