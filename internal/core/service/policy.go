package service

import (
	"fmt"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// RolePolicy restricts actions on a kind to a set of roles. Anything without
// a rule is open to every authenticated actor.
type RolePolicy struct {
	rules map[domain.Kind]map[domain.Action][]domain.Role
}

func NewRolePolicy() *RolePolicy {
	return &RolePolicy{rules: make(map[domain.Kind]map[domain.Action][]domain.Role)}
}

// Restrict limits action on kind to roles. It returns p for chaining.
func (p *RolePolicy) Restrict(kind domain.Kind, action domain.Action, roles ...domain.Role) *RolePolicy {
	if p.rules[kind] == nil {
		p.rules[kind] = make(map[domain.Action][]domain.Role)
	}
	p.rules[kind][action] = roles
	return p
}

// Allow satisfies ports.Policy.
func (p *RolePolicy) Allow(actor *domain.Actor, kind domain.Kind, action domain.Action) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	roles, ok := p.rules[kind][action]
	if !ok {
		return nil
	}
	for _, r := range roles {
		if r == actor.Role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s may not %s %s", domain.ErrForbidden, actor.Role, action, kind)
}
