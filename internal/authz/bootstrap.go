package authz

import "fmt"

// 预置角色
const (
	RoleReadonlyAuditor = "readonly_auditor"
	RoleSalesAgent      = "sales_agent"
	RoleShopManager     = "shop_manager"
)

// RoleSeed 预置角色：继承关系与自身的路由权限
type RoleSeed struct {
	Role     string
	Inherits []string
	Routes   []Policy
}

func route(method, path string) Policy {
	return Policy{Object: path, Action: method}
}

// BuiltinRoleSeeds 审计只读；代理人可下单查客户；店长可编辑分箱、改履约与设置
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleReadonlyAuditor,
			Routes: []Policy{
				route("GET", "/admin/me"),
				route("GET", "/admin/box-orders"),
				route("GET", "/admin/box-orders/:id"),
				route("GET", "/admin/box-orders/:id/history"),
				route("GET", "/admin/box-orders/:id/packing-list"),
				route("GET", "/admin/box-orders/:id/collecting-list"),
				route("GET", "/admin/settings/box-order"),
			},
		},
		{
			Role:     RoleSalesAgent,
			Inherits: []string{RoleReadonlyAuditor},
			Routes: []Policy{
				route("POST", "/admin/box-orders"),
				route("GET", "/admin/customers"),
				route("GET", "/admin/customers/:id"),
				route("GET", "/admin/products"),
			},
		},
		{
			Role:     RoleShopManager,
			Inherits: []string{RoleSalesAgent},
			Routes: []Policy{
				route("PUT", "/admin/box-orders/:id/boxes"),
				route("PATCH", "/admin/box-orders/:id/fulfillment"),
				route("PUT", "/admin/settings/box-order"),
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色，重复执行不会产生重复规则
func (s *Service) BootstrapBuiltinRoles() error {
	if err := s.ready(); err != nil {
		return err
	}
	changed := false
	track := func(added bool, err error) error {
		if err != nil {
			return err
		}
		changed = changed || added
		return nil
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := normalizeRole(seed.Role)
		if err != nil {
			return err
		}
		if err := track(s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)); err != nil {
			return fmt.Errorf("seed role %s: %w", seed.Role, err)
		}
		for _, parent := range seed.Inherits {
			parentRole, err := normalizeRole(parent)
			if err != nil {
				return err
			}
			if err := track(s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)); err != nil {
				return fmt.Errorf("seed inheritance %s -> %s: %w", seed.Role, parent, err)
			}
		}
		for _, p := range seed.Routes {
			if err := track(s.enforcer.AddPolicy(role, NormalizeObject(p.Object), NormalizeAction(p.Action))); err != nil {
				return fmt.Errorf("seed policy %s %s: %w", p.Action, p.Object, err)
			}
		}
	}

	if changed {
		return s.enforcer.LoadPolicy()
	}
	return nil
}
