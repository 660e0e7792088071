package access

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/access"
	"github.com/dolluzcorp/dtime-backend-go/internal/domain/employee"
)

// Admin passes every check regardless of the matrix.
const permissionModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == "Admin" || (r.sub == p.sub && r.obj == p.obj)
`

type AccessServiceImpl struct {
	levels access.AccessLevelRepository

	mu       sync.RWMutex
	enforcer *casbin.Enforcer
}

var _ access.AccessService = (*AccessServiceImpl)(nil)

// NewAccessService loads the access matrix once. Call Reload after the table changes
// outside this service.
func NewAccessService(ctx context.Context, levelRepo access.AccessLevelRepository) (*AccessServiceImpl, error) {
	s := &AccessServiceImpl{levels: levelRepo}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func newEnforcer(levels []access.AccessLevel) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(permissionModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse permission model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	var rules [][]string
	for _, level := range levels {
		for _, role := range employee.Roles {
			if level.Allows(role) {
				rules = append(rules, []string{string(role), string(level.PageName)})
			}
		}
	}
	if len(rules) > 0 {
		if _, err := e.AddPolicies(rules); err != nil {
			return nil, fmt.Errorf("failed to load access policies: %w", err)
		}
	}
	return e, nil
}

// Reload implements access.AccessService. The new enforcer replaces the old one only
// when it was built completely.
func (s *AccessServiceImpl) Reload(ctx context.Context) error {
	levels, err := s.levels.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load access levels: %w", err)
	}
	e, err := newEnforcer(levels)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.enforcer = e
	s.mu.Unlock()
	slog.Info("Access matrix loaded", "pages", len(levels))
	return nil
}

// Can implements access.Checker.
func (s *AccessServiceImpl) Can(role employee.Role, page access.Page) bool {
	s.mu.RLock()
	e := s.enforcer
	s.mu.RUnlock()
	if e == nil {
		return false
	}

	ok, err := e.Enforce(string(role), string(page))
	if err != nil {
		slog.Error("Permission check failed", "role", role, "page", page, "error", err)
		return false
	}
	return ok
}

// List implements access.AccessService.
func (s *AccessServiceImpl) List(ctx context.Context) ([]access.AccessLevelResponse, error) {
	levels, err := s.levels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list access levels: %w", err)
	}
	responses := make([]access.AccessLevelResponse, 0, len(levels))
	for _, level := range levels {
		responses = append(responses, access.NewAccessLevelResponse(level))
	}
	return responses, nil
}

// Update implements access.AccessService.
func (s *AccessServiceImpl) Update(ctx context.Context, req access.UpdateAccessLevelRequest) (access.AccessLevelResponse, error) {
	if err := req.Validate(); err != nil {
		return access.AccessLevelResponse{}, err
	}

	level, err := s.levels.GetByID(ctx, req.ID)
	if err != nil {
		return access.AccessLevelResponse{}, err
	}
	level.AdminAccess = *req.AdminAccess
	level.SubAdminAccess = *req.SubAdminAccess
	level.ManagerAccess = *req.ManagerAccess
	level.UserAccess = *req.UserAccess

	if err := s.levels.Update(ctx, level); err != nil {
		return access.AccessLevelResponse{}, err
	}
	if err := s.Reload(ctx); err != nil {
		return access.AccessLevelResponse{}, err
	}
	return access.NewAccessLevelResponse(level), nil
}
