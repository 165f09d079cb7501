package cwsearch

import (
	"fmt"
	"strings"
)

// matchAllQuery selects everything in the log group. It doubles as the
// fallback for unrecognized query shapes.
const matchAllQuery = "fields @timestamp, @message | limit 1000"

var globToRegex = strings.NewReplacer("*", ".*", "?", ".")

// Translate renders a Node as a CloudWatch Logs Insights query string.
//
// Translate is a total, pure function: every Node, including nil, yields a
// valid query string. Unknown shapes translate like MatchAll.
func Translate(n Node) string {
	switch n := n.(type) {
	case Match:
		return fmt.Sprintf("fields @timestamp, %s | filter %s like /%s/", n.Field, n.Field, n.Value)
	case Term:
		return fmt.Sprintf("fields @timestamp, %s | filter %s = %q", n.Field, n.Field, n.Value)
	case Terms:
		quoted := make([]string, len(n.Values))
		for i, v := range n.Values {
			quoted[i] = fmt.Sprintf("%q", v)
		}
		return fmt.Sprintf("fields @timestamp, %s | filter %s in [%s]", n.Field, n.Field, strings.Join(quoted, ", "))
	case Range:
		return fmt.Sprintf("fields @timestamp, %s | filter %s", n.Field, rangePredicate(n))
	case Wildcard:
		return fmt.Sprintf("fields @timestamp, %s | filter %s like /%s/", n.Field, n.Field, globToRegex.Replace(n.Pattern))
	case Bool:
		return translateBool(n)
	case Raw:
		return fmt.Sprintf("fields @timestamp, @message | filter @message like /%s/ | limit 1000", n.Text)
	}
	// MatchAll, nil, and anything unrecognized match everything.
	return matchAllQuery
}

func rangePredicate(n Range) string {
	var parts []string
	if b := n.Bounds.GTE; b != nil {
		parts = append(parts, n.Field+" >= "+*b)
	}
	if b := n.Bounds.GT; b != nil {
		parts = append(parts, n.Field+" > "+*b)
	}
	if b := n.Bounds.LTE; b != nil {
		parts = append(parts, n.Field+" <= "+*b)
	}
	if b := n.Bounds.LT; b != nil {
		parts = append(parts, n.Field+" < "+*b)
	}
	if len(parts) == 0 {
		// No bounds: the filter is unconditionally true.
		return "true"
	}
	return strings.Join(parts, " and ")
}

// translateBool combines the filter predicates of the sub-queries: Must
// predicates AND-ed into one parenthesized group, Should predicates OR-ed
// into another, each MustNot predicate negated on its own. A sub-query
// without a filter predicate (e.g. a nested MatchAll) contributes nothing.
// If no predicates survive, the whole query falls back to MatchAll.
func translateBool(n Bool) string {
	var groups []string
	if preds := predicates(n.Must); len(preds) > 0 {
		groups = append(groups, "("+strings.Join(preds, " and ")+")")
	}
	if preds := predicates(n.Should); len(preds) > 0 {
		groups = append(groups, "("+strings.Join(preds, " or ")+")")
	}
	for _, p := range predicates(n.MustNot) {
		groups = append(groups, "not ("+p+")")
	}
	if len(groups) == 0 {
		return matchAllQuery
	}
	return "fields @timestamp, @message | filter " + strings.Join(groups, " and ")
}

func predicates(nodes []Node) []string {
	var preds []string
	for _, n := range nodes {
		if p, ok := predicate(n); ok {
			preds = append(preds, p)
		}
	}
	return preds
}

// predicate extracts the filter expression from a sub-query's translation,
// discarding the leading field-selection clause.
func predicate(n Node) (string, bool) {
	const marker = "| filter "
	s := Translate(n)
	i := strings.Index(s, marker)
	if i < 0 {
		return "", false
	}
	return s[i+len(marker):], true
}
