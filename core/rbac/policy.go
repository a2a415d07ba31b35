package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const (
	PermIncidentsView     Permission = "incidents.view"
	PermIncidentsManage   Permission = "incidents.manage"
	PermActionItemsView   Permission = "action_items.view"
	PermActionItemsManage Permission = "action_items.manage"
	PermReportsView       Permission = "reports.view"
	PermAdminPanel        Permission = "admin.panel"
)

const (
	RoleAdmin    = "admin_user"
	RoleEngineer = "engineer"
	RoleBusiness = "business_user"
)

const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj
`

// Policy answers "may this role perform this operation". The rule set is
// fixed at startup: every authenticated role works with incidents, action
// items and reports; only admin_user reaches the admin panel.
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	shared := []Permission{
		PermIncidentsView, PermIncidentsManage,
		PermActionItemsView, PermActionItemsManage,
		PermReportsView,
	}
	for _, role := range []string{RoleAdmin, RoleEngineer, RoleBusiness} {
		for _, perm := range shared {
			if _, err := e.AddPolicy(role, string(perm)); err != nil {
				return nil, err
			}
		}
	}
	if _, err := e.AddPolicy(RoleAdmin, string(PermAdminPanel)); err != nil {
		return nil, err
	}
	return &Policy{enforcer: e}, nil
}

func (p *Policy) Allowed(role string, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	ok, err := p.enforcer.Enforce(role, string(perm))
	return err == nil && ok
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEngineer, RoleBusiness:
		return true
	}
	return false
}

func Roles() []string {
	return []string{RoleAdmin, RoleEngineer, RoleBusiness}
}
