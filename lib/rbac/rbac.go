package rbac

import (
	"labstock-backend/models"
	"regexp"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

type Provider interface {
	GetRuleFunc(method, path string) (models.RbacFunc, bool)
	// Allowed known=false, если маршрут не описан правилами
	Allowed(method, path, labID, userID string, role models.UserRole) (allowed, known bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	i := newImpl()
	i.initRules()
	Instance = i
}

func newImpl() *impl {
	return &impl{
		routes:      map[HTTPMethod]*routeTable{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
}

type impl struct {
	routes      map[HTTPMethod]*routeTable
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (i *impl) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	table, ok := i.routes[HTTPMethod(strings.ToUpper(method))]
	if !ok {
		return nil, false
	}
	r := table.find(normalizePath(path))
	if r == nil {
		return nil, false
	}
	return r.check, true
}

func (i *impl) Allowed(method, path, labID, userID string, role models.UserRole) (allowed, known bool) {
	check, known := i.GetRuleFunc(method, path)
	if !known {
		return false, false
	}
	return check(labID, userID, role, path), true
}

func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string, handler models.RbacFunc) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}
	table, ok := i.routes[method]
	if !ok {
		table = newRouteTable()
		i.routes[method] = table
	}
	if table.has(path) {
		return errors.Errorf("rule already registered: %v", swaggerPattern)
	}
	if handler == nil {
		handler = AllowByRoleFunc(roles)
	}
	r := &route{
		module:     module,
		permission: permission,
		path:       path,
		check:      handler,
	}
	if strings.Contains(path, "{") {
		r.pattern = pathToRegex(path)
		if r.pattern == nil {
			return errors.Errorf("invalid path in pattern: %v", swaggerPattern)
		}
		table.patterns = append(table.patterns, r)
	} else {
		table.exact[path] = r
	}
	i.addPermission(module, permission, roles)
	return nil
}

// addPermission список модулей и действий для клиента
func (i *impl) addPermission(module models.Module, permission models.Permission, roles []models.UserRole) {
	for _, role := range roles {
		if _, ok := i.permissions[role]; !ok {
			i.permissions[role] = map[models.Module][]models.Permission{}
		}
		list := i.permissions[role][module]
		if slices.Contains(list, permission) {
			continue
		}
		list = append(list, permission)
		slices.Sort(list)
		i.permissions[role][module] = list
	}
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	result := make(map[models.Module][]models.Permission, len(i.permissions[role]))
	for module, list := range i.permissions[role] {
		result[module] = slices.Clone(list)
	}
	return result
}

var paramRe = regexp.MustCompile(`\{[^}]+?\}`)

// pathToRegex параметр {id} совпадает с одним сегментом пути
func pathToRegex(path string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(path)
	pattern = strings.ReplaceAll(pattern, `\{`, "{")
	pattern = strings.ReplaceAll(pattern, `\}`, "}")
	pattern = paramRe.ReplaceAllString(pattern, `([^/]+)`)
	regex, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return nil
	}
	return regex
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	allowMap := map[models.UserRole]bool{}
	for _, role := range accessRoles {
		allowMap[role] = true
	}
	return func(labID, userID string, role models.UserRole, uri string) bool {
		return allowMap[role]
	}
}

// RequireLabFunc роли из списка, сотруднику дополнительно нужна назначенная лаборатория
func RequireLabFunc(accessRoles []models.UserRole) models.RbacFunc {
	byRole := AllowByRoleFunc(accessRoles)
	return func(labID, userID string, role models.UserRole, uri string) bool {
		if !byRole(labID, userID, role, uri) {
			return false
		}
		return role != models.LabUserRole || labID != ""
	}
}

// parseSwaggerPattern строка вида "/api/v1/users [post]"
func parseSwaggerPattern(pattern string) (path string, method HTTPMethod, err error) {
	pattern = strings.TrimSpace(pattern)
	bracketStart := strings.LastIndex(pattern, "[")
	bracketEnd := strings.LastIndex(pattern, "]")
	if bracketStart == -1 || bracketEnd <= bracketStart {
		return "", "", errors.Errorf("Method not provided for pattern (%v)", pattern)
	}
	method = HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[bracketStart+1 : bracketEnd])))
	if !method.IsValid() {
		return "", "", errors.Errorf("unsupported method in pattern (%v)", pattern)
	}
	return normalizePath(pattern[:bracketStart]), method, nil
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}
