package cwsearch

import (
	"encoding/json"

	elastic "github.com/olivere/elastic/v7" // Elasticsearch query builders.
	"github.com/tidwall/gjson"              // JSON parsing.
)

// Node is one recognized query shape. It is parsed out of a query document
// exactly once; the translator then switches over the variants.
//
// The set of variants is sealed: MatchAll, Match, Term, Terms, Range,
// Wildcard, Bool, and Raw.
type Node interface {
	node()
}

// MatchAll matches every log event.
type MatchAll struct{}

// Match filters a field by substring/regex match.
type Match struct {
	Field string
	Value string
}

// Term filters a field by exact (quoted) equality.
type Term struct {
	Field string
	Value string
}

// Terms filters a field by membership in an ordered list of values.
type Terms struct {
	Field  string
	Values []string
}

// Bounds are the optional comparisons of a Range query. Values keep the
// textual form they had in the query document so numbers render unquoted.
type Bounds struct {
	GTE *string
	GT  *string
	LTE *string
	LT  *string
}

// Range filters a field by the conjunction of its present bounds.
type Range struct {
	Field  string
	Bounds Bounds
}

// Wildcard filters a field by a glob pattern (* and ?).
type Wildcard struct {
	Field   string
	Pattern string
}

// Bool combines sub-queries: all Must clauses hold, at least one Should
// clause holds, no MustNot clause holds.
type Bool struct {
	Must    []Node
	Should  []Node
	MustNot []Node
}

// Raw is a bare string searched for in the message field.
type Raw struct {
	Text string
}

func (MatchAll) node() {}
func (Match) node()    {}
func (Term) node()     {}
func (Terms) node()    {}
func (Range) node()    {}
func (Wildcard) node() {}
func (Bool) node()     {}
func (Raw) node()      {}

// Parse parses an Elasticsearch Query DSL document into a Node.
//
// Parse is total: it recognizes the supported subset of the DSL (bool,
// match, match_all, term, terms, range, wildcard) and degrades everything
// else to MatchAll instead of failing. A JSON string instead of an object
// becomes a Raw message search. When a clause body names several fields
// only the first is honored.
func Parse(doc []byte) Node {
	r := gjson.ParseBytes(doc)
	if r.Type == gjson.String {
		return Raw{Text: r.String()}
	}
	if !r.IsObject() {
		return MatchAll{}
	}
	return parseObject(r)
}

// ParseString returns a Node searching the message field for the literal
// query string.
func ParseString(query string) Node {
	return Raw{Text: query}
}

// FromElastic converts a query built with the olivere/elastic query
// builders into a Node, so queries written for a real Elasticsearch client
// can be run unchanged. Only builders whose source falls in the supported
// DSL subset translate precisely; anything else degrades to MatchAll the
// same way Parse does.
func FromElastic(q elastic.Query) (Node, error) {
	src, err := q.Source()
	if err != nil {
		return nil, err
	}
	doc, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	return Parse(doc), nil
}

func parseObject(r gjson.Result) Node {
	if b := r.Get("bool"); b.IsObject() {
		return Bool{
			Must:    parseClauses(b.Get("must")),
			Should:  parseClauses(b.Get("should")),
			MustNot: parseClauses(b.Get("must_not")),
		}
	}
	if m := r.Get("match"); m.IsObject() {
		field, value := firstField(m)
		if field == "" {
			return MatchAll{}
		}
		return Match{Field: field, Value: unwrap(value, "query")}
	}
	if r.Get("match_all").Exists() {
		return MatchAll{}
	}
	if t := r.Get("term"); t.IsObject() {
		field, value := firstField(t)
		if field == "" {
			return MatchAll{}
		}
		return Term{Field: field, Value: unwrap(value, "value")}
	}
	if t := r.Get("terms"); t.IsObject() {
		field, value := firstField(t)
		if field == "" {
			return MatchAll{}
		}
		elems := value.Array()
		values := make([]string, 0, len(elems))
		for _, v := range elems {
			values = append(values, v.String())
		}
		return Terms{Field: field, Values: values}
	}
	if rng := r.Get("range"); rng.IsObject() {
		field, conds := firstField(rng)
		if field == "" {
			return MatchAll{}
		}
		return Range{Field: field, Bounds: Bounds{
			GTE: bound(conds, "gte"),
			GT:  bound(conds, "gt"),
			LTE: bound(conds, "lte"),
			LT:  bound(conds, "lt"),
		}}
	}
	if w := r.Get("wildcard"); w.IsObject() {
		field, value := firstField(w)
		if field == "" {
			return MatchAll{}
		}
		return Wildcard{Field: field, Pattern: unwrap(value, "value")}
	}
	return MatchAll{}
}

// parseClauses parses the clause list of a bool query section.
// Elasticsearch allows a single clause object in place of a list.
func parseClauses(list gjson.Result) []Node {
	if list.IsObject() {
		return []Node{parseObject(list)}
	}
	if !list.IsArray() {
		return nil
	}
	elems := list.Array()
	nodes := make([]Node, 0, len(elems))
	for _, c := range elems {
		if c.IsObject() {
			nodes = append(nodes, parseObject(c))
		}
	}
	return nodes
}

// firstField returns the first key/value entry of a clause body.
// Multi-field bodies are deliberately reduced to their first entry.
func firstField(body gjson.Result) (string, gjson.Result) {
	var field string
	var value gjson.Result
	body.ForEach(func(k, v gjson.Result) bool {
		field, value = k.String(), v
		return false // only the first entry
	})
	return field, value
}

// unwrap returns the scalar form of a clause value, unwrapping the long
// form {"query": v} / {"value": v} used by match, term, and wildcard.
func unwrap(v gjson.Result, key string) string {
	if v.IsObject() {
		if inner := v.Get(key); inner.Exists() {
			return inner.String()
		}
	}
	return v.String()
}

func bound(conds gjson.Result, key string) *string {
	v := conds.Get(key)
	if !v.Exists() {
		return nil
	}
	s := v.String()
	return &s
}
