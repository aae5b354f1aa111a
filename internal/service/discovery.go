package service

import (
	"context"
	"sort"
	"strings"
)

// Discovery picks a specialized agent for a user message.
type Discovery interface {
	Discover(ctx context.Context, message string) (agent string, ok bool)
}

type route struct {
	keyword string
	agent   string
}

// KeywordDiscovery selects an agent when its keyword occurs in the
// lower-cased message. Longer keywords are tried first; ties go in
// alphabetical order.
type KeywordDiscovery struct {
	routes []route
}

// NewKeywordDiscovery builds a discovery from keyword to agent pairs. An
// empty map never selects an agent.
func NewKeywordDiscovery(agents map[string]string) *KeywordDiscovery {
	routes := make([]route, 0, len(agents))
	for kw, agent := range agents {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || agent == "" {
			continue
		}
		routes = append(routes, route{keyword: kw, agent: agent})
	}
	sort.Slice(routes, func(i, j int) bool {
		if len(routes[i].keyword) != len(routes[j].keyword) {
			return len(routes[i].keyword) > len(routes[j].keyword)
		}
		return routes[i].keyword < routes[j].keyword
	})
	return &KeywordDiscovery{routes: routes}
}

// Discover implements Discovery.
func (d *KeywordDiscovery) Discover(_ context.Context, message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, r := range d.routes {
		if strings.Contains(lower, r.keyword) {
			return r.agent, true
		}
	}
	return "", false
}
