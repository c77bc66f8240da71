package gateway

import "strings"

var (
	DefaultPublicPaths    = []string{"/api/accounts/login", "/api/accounts/register", "/health", "/metrics"}
	DefaultPublicPrefixes = []string{"/swagger-ui", "/v3/api-docs", "/actuator", "/fallback"}
)

// PublicMatcher 不需要 token 的路径；忽略大小写和结尾的 /
type PublicMatcher struct {
	paths    map[string]struct{}
	prefixes []string
}

func NewPublicMatcher(paths, prefixes []string) *PublicMatcher {
	m := &PublicMatcher{paths: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		m.paths[normalize(p)] = struct{}{}
	}
	for _, p := range prefixes {
		m.prefixes = append(m.prefixes, normalize(p))
	}
	return m
}

func (m *PublicMatcher) IsPublic(path string) bool {
	p := normalize(path)
	if _, ok := m.paths[p]; ok {
		return true
	}
	for _, pre := range m.prefixes {
		if p == pre || strings.HasPrefix(p, pre+"/") {
			return true
		}
	}
	return false
}

func normalize(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}
