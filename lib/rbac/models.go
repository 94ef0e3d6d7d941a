package rbac

import (
	"labstock-backend/models"
	"regexp"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
)

func (m HTTPMethod) IsValid() bool {
	switch m {
	case GET, POST, PUT, DELETE:
		return true
	}
	return false
}

// route правило доступа к одному маршруту API
type route struct {
	module     models.Module
	permission models.Permission
	path       string
	pattern    *regexp.Regexp // nil для пути без параметров
	check      models.RbacFunc
}

// routeTable маршруты одного метода: сначала точные, потом с параметрами
type routeTable struct {
	exact    map[string]*route
	patterns []*route
}

func newRouteTable() *routeTable {
	return &routeTable{exact: map[string]*route{}}
}

func (t *routeTable) find(path string) *route {
	if r, ok := t.exact[path]; ok {
		return r
	}
	for _, r := range t.patterns {
		if r.pattern.MatchString(path) {
			return r
		}
	}
	return nil
}

func (t *routeTable) has(path string) bool {
	if _, ok := t.exact[path]; ok {
		return true
	}
	for _, r := range t.patterns {
		if r.path == path {
			return true
		}
	}
	return false
}
