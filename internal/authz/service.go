package authz

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/casbin/casbin/v3/util"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

var (
	// ErrUnavailable 授权服务未初始化
	ErrUnavailable = errors.New("authz service unavailable")
	// ErrAdminIDRequired 账号 ID 为空
	ErrAdminIDRequired = errors.New("admin id is required")
	// ErrRoleRequired 角色名为空
	ErrRoleRequired = errors.New("role is required")
)

const (
	routePrefix = "/api/v1"
	ruleTable   = "casbin_rule"
	subjectFmt  = "account:%d"
	roleTag     = "role:"
	// 所有角色挂在 anchor 下，未分配账号的角色也能被列出
	roleAnchor = "role:__box_roles__"
)

// 资源匹配使用 keyMatch2，策略里写 /admin/box-orders/:id 即可
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (p.act == "*" || r.act == p.act)
`

// Policy 一条授权规则
type Policy struct {
	Subject string `json:"subject"`
	Object  string `json:"object"`
	Action  string `json:"action"`
}

// Service 基于 casbin 的后台路由授权
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 加载模型与 casbin_rule 表中的策略
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("authz db is nil")
	}
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", ruleTable)
	if err != nil {
		return nil, fmt.Errorf("authz adapter: %w", err)
	}
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("authz enforcer: %w", err)
	}
	enforcer.AddFunction("keyMatch2", util.KeyMatch2Func)
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz load policy: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

func (s *Service) ready() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	return nil
}

// EnforceAdmin 判断账号能否以 act 访问路由 obj
func (s *Service) EnforceAdmin(adminID uint, obj, act string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	if adminID == 0 {
		return false, ErrAdminIDRequired
	}
	return s.enforcer.Enforce(SubjectForAdmin(adminID), NormalizeObject(obj), NormalizeAction(act))
}

// ListRoles 全部已登记的角色（不含 role: 前缀）
func (s *Service) ListRoles() ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	rules, err := s.enforcer.GetFilteredNamedGroupingPolicy("g", 1, roleAnchor)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	roles := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) > 0 {
			roles = append(roles, strings.TrimPrefix(rule[0], roleTag))
		}
	}
	sort.Strings(roles)
	return roles, nil
}

// SyncAdminRole 以账号表的 role 字段为准重建授权主体的角色，空角色即收回
func (s *Service) SyncAdminRole(adminID uint, role string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if adminID == 0 {
		return ErrAdminIDRequired
	}
	subject := SubjectForAdmin(adminID)
	role = strings.TrimSpace(role)

	var target string
	if role != "" {
		normalized, err := normalizeRole(role)
		if err != nil {
			return err
		}
		current, err := s.enforcer.GetRolesForUser(subject)
		if err == nil && len(current) == 1 && current[0] == normalized {
			return nil
		}
		target = normalized
	}

	if _, err := s.enforcer.RemoveFilteredNamedGroupingPolicy("g", 0, subject); err != nil {
		return fmt.Errorf("clear account roles: %w", err)
	}
	if target == "" {
		return nil
	}
	if err := s.registerRole(target); err != nil {
		return err
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", subject, target); err != nil {
		return fmt.Errorf("assign account role: %w", err)
	}
	return nil
}

// GetAdminRoles 账号直接拥有的角色
func (s *Service) GetAdminRoles(adminID uint) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if adminID == 0 {
		return nil, ErrAdminIDRequired
	}
	roles, err := s.enforcer.GetRolesForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("get account roles: %w", err)
	}
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		if strings.HasPrefix(role, roleTag) && role != roleAnchor {
			out = append(out, strings.TrimPrefix(role, roleTag))
		}
	}
	sort.Strings(out)
	return out, nil
}

// GetAdminPolicies 账号的生效策略，含继承角色，按路由排序去重
func (s *Service) GetAdminPolicies(adminID uint) ([]Policy, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if adminID == 0 {
		return nil, ErrAdminIDRequired
	}
	rules, err := s.enforcer.GetImplicitPermissionsForUser(SubjectForAdmin(adminID))
	if err != nil {
		return nil, fmt.Errorf("get account policies: %w", err)
	}
	byKey := make(map[string]Policy, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		p := Policy{
			Subject: strings.TrimPrefix(strings.TrimSpace(rule[0]), roleTag),
			Object:  NormalizeObject(rule[1]),
			Action:  NormalizeAction(rule[2]),
		}
		key := p.Action + " " + p.Object
		if _, ok := byKey[key]; !ok {
			byKey[key] = p
		}
	}
	policies := make([]Policy, 0, len(byKey))
	for _, p := range byKey {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object != policies[j].Object {
			return policies[i].Object < policies[j].Object
		}
		return policies[i].Action < policies[j].Action
	})
	return policies, nil
}

func (s *Service) registerRole(role string) error {
	if role == roleAnchor {
		return fmt.Errorf("role %q is reserved", role)
	}
	if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor); err != nil {
		return fmt.Errorf("register role: %w", err)
	}
	return nil
}

// SubjectForAdmin 授权主体标识
func SubjectForAdmin(adminID uint) string {
	return fmt.Sprintf(subjectFmt, adminID)
}

func normalizeRole(role string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(role), roleTag)
	name = strings.ReplaceAll(strings.ToLower(name), " ", "_")
	if name == "" {
		return "", ErrRoleRequired
	}
	return roleTag + name, nil
}

// NormalizeObject 路由统一为不带 /api/v1 的形式
func NormalizeObject(object string) string {
	p := strings.TrimSpace(object)
	if p == "" || p == routePrefix {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if rest, ok := strings.CutPrefix(p, routePrefix+"/"); ok {
		return "/" + rest
	}
	return p
}

// NormalizeAction HTTP 方法大写
func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
