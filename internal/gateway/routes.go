package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"

	"shop-microservices/internal/core/config"
)

var ErrNoUpstream = errors.New("route has no upstream")

// Route 一个前缀对应一组后端，轮询选择
type Route struct {
	Name      string
	Prefix    string
	upstreams []*url.URL
	next      atomic.Uint64
}

// Pick 轮询下一个后端
func (r *Route) Pick() *url.URL {
	n := r.next.Add(1) - 1
	return r.upstreams[n%uint64(len(r.upstreams))]
}

func (r *Route) matches(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

type Table struct {
	routes []*Route
}

func NewTable(cfg []config.Route) (*Table, error) {
	t := &Table{}
	for _, rc := range cfg {
		if len(rc.Upstreams) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoUpstream, rc.Name)
		}
		r := &Route{Name: rc.Name, Prefix: strings.TrimRight(rc.Prefix, "/")}
		for _, raw := range rc.Upstreams {
			u, err := url.Parse(raw)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return nil, fmt.Errorf("route %s: invalid upstream %q", rc.Name, raw)
			}
			r.upstreams = append(r.upstreams, u)
		}
		t.routes = append(t.routes, r)
	}
	// 最长前缀优先
	sort.SliceStable(t.routes, func(i, j int) bool {
		return len(t.routes[i].Prefix) > len(t.routes[j].Prefix)
	})
	return t, nil
}

func (t *Table) Match(path string) (*Route, bool) {
	for _, r := range t.routes {
		if r.matches(path) {
			return r, true
		}
	}
	return nil, false
}

// Rewrite /api/(.*) → /$1
func Rewrite(path string) string {
	if rest, ok := strings.CutPrefix(path, "/api/"); ok {
		return "/" + rest
	}
	if path == "/api" {
		return "/"
	}
	return path
}
