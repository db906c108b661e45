package openf1

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

type Operator string

const (
	OpEq  Operator = "="
	OpGte Operator = ">="
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpLt  Operator = "<"
)

// longest first, used for prefix matching
var operators = []Operator{OpGte, OpLte, OpGt, OpLt, OpEq}

func (o Operator) valid() bool {
	for _, op := range operators {
		if o == op {
			return true
		}
	}
	return false
}

// Filter restricts the rows of an endpoint, e.g. date_start>=2025-03-13.
type Filter struct {
	Field string
	Op    Operator
	Value string
}

func (f Filter) String() string {
	return f.Field + string(f.Op) + f.Value
}

// encode escapes the value only. OpenF1 expects the operator unescaped.
func (f Filter) encode() string {
	return url.QueryEscape(f.Field) + string(f.Op) + url.QueryEscape(f.Value)
}

type Params []Filter

func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: fmt.Sprint(value)}
}

func Gte(field string, value any) Filter {
	return Filter{Field: field, Op: OpGte, Value: fmt.Sprint(value)}
}

func Lte(field string, value any) Filter {
	return Filter{Field: field, Op: OpLte, Value: fmt.Sprint(value)}
}

// FromValue creates a filter whose operator may be given as value prefix,
// so ("date_start", ">=2025-03-13") yields date_start>=2025-03-13. Without
// prefix the operator is "=".
func FromValue(field, value string) (Filter, error) {
	op, rest := splitOperator(value)
	switch op {
	case "":
		op = OpEq
	case OpEq:
		return Filter{}, fmt.Errorf("%w: %s=%s", ErrInvalidOperator, field, value)
	}
	if rest != "" && strings.ContainsAny(rest[:1], "<>=") {
		return Filter{}, fmt.Errorf("%w: %s%s", ErrInvalidOperator, field, value)
	}
	return Filter{Field: field, Op: op, Value: rest}, nil
}

// ParseFilter parses command line style filters like "session_key=9158",
// "date_start>=2025-03-13" or "date_end=<=2025-03-16".
func ParseFilter(arg string) (Filter, error) {
	idx := strings.IndexAny(arg, "<>=")
	if idx <= 0 {
		return Filter{}, fmt.Errorf("%w: missing field or operator in %q", ErrInvalidOperator, arg)
	}
	field := strings.TrimSpace(arg[:idx])
	op, rest := splitOperator(arg[idx:])
	if op == OpEq {
		return FromValue(field, rest)
	}
	if rest != "" && strings.ContainsAny(rest[:1], "<>=") {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidOperator, arg)
	}
	return Filter{Field: field, Op: op, Value: rest}, nil
}

func ParseFilters(args []string) (Params, error) {
	ret := make(Params, 0, len(args))
	for _, a := range args {
		f, err := ParseFilter(a)
		if err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}

func splitOperator(s string) (op Operator, rest string) {
	for _, o := range operators {
		if strings.HasPrefix(s, string(o)) {
			return o, s[len(o):]
		}
	}
	return "", s
}

// Encode returns the query string with parameters sorted by field name.
// Filters on the same field keep their order.
func (p Params) Encode() string {
	sorted := make(Params, len(p))
	copy(sorted, p)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Field < sorted[j].Field })
	parts := make([]string, 0, len(sorted))
	for _, f := range sorted {
		parts = append(parts, f.encode())
	}
	return strings.Join(parts, "&")
}

var nameReplacer = strings.NewReplacer(
	"&", "__", ">=", "_gte_", "<=", "_lte_", ">", "_gt_", "<", "_lt_", "=", "_",
	"%3A", "-", "%2F", "-", "%", "")

// Name returns a file system friendly representation of the parameters.
func (p Params) Name() string {
	enc := p.Encode()
	if enc == "" {
		return "all"
	}
	return nameReplacer.Replace(enc)
}
