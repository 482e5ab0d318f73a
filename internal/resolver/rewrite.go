package resolver

import (
	"net/url"
	"strings"
)

const apiPrefix = "/api"

// RuleKind names the rewrite rule that matched a URL.
type RuleKind string

const (
	RuleNone         RuleKind = "none"
	RuleRelative     RuleKind = "relative"
	RuleDeployedHost RuleKind = "deployed_host"
	RuleLocalhost    RuleKind = "localhost"
)

// Rule is one rewrite rule. Match is the host substring for the host
// based kinds and unused for RuleRelative.
type Rule struct {
	Kind  RuleKind
	Match string
}

// Rewriter maps outbound URLs onto the remote origin. Rules are tried in
// order and never change after construction.
type Rewriter struct {
	origin string
	rules  []Rule
}

// NewRewriter builds the rule list: relative /api paths first, then the
// deployed static host, then the local development host. An empty host
// substring disables its rule.
func NewRewriter(origin, deployedHost, localHost string) *Rewriter {
	rules := []Rule{{Kind: RuleRelative}}
	if deployedHost != "" {
		rules = append(rules, Rule{Kind: RuleDeployedHost, Match: deployedHost})
	}
	if localHost != "" {
		rules = append(rules, Rule{Kind: RuleLocalhost, Match: localHost})
	}

	return &Rewriter{
		origin: strings.TrimSuffix(origin, "/"),
		rules:  rules,
	}
}

func (rw *Rewriter) Origin() string {
	return rw.origin
}

func (rw *Rewriter) Rules() []Rule {
	out := make([]Rule, len(rw.rules))
	copy(out, rw.rules)
	return out
}

// Rewrite returns the URL to actually call and the rule that produced it.
// URLs no rule matches come back unchanged with RuleNone.
func (rw *Rewriter) Rewrite(raw string) (string, RuleKind) {
	for _, rule := range rw.rules {
		if rule.Kind == RuleRelative {
			if strings.HasPrefix(raw, apiPrefix) {
				return rw.origin + raw, RuleRelative
			}
			continue
		}

		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		if !strings.Contains(u.Host, rule.Match) {
			continue
		}
		rest, ok := fromAPI(u)
		if !ok {
			continue
		}
		return rw.origin + rest, rule.Kind
	}
	return raw, RuleNone
}

// fromAPI returns the path plus the query when the path begins with
// "/api" right after the host. Sites served under a sub-path do not match.
func fromAPI(u *url.URL) (string, bool) {
	path := u.EscapedPath()
	if !strings.HasPrefix(path, apiPrefix) {
		return "", false
	}

	rest := path
	if u.RawQuery != "" {
		rest += "?" + u.RawQuery
	}
	return rest, true
}

// APIPath extracts the mock table key from a URL: its path, query
// excluded, when that path begins with "/api".
func APIPath(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(u.Path, apiPrefix) {
		return "", false
	}
	return u.Path, true
}
