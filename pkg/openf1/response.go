package openf1

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/mpapenbr/openf1-analysis/pkg/model"
)

// envelope keys that may wrap the row list
var listPaths = []jp.Expr{jp.C("results"), jp.C("data"), jp.C("items")}

// DecodeRows converts a response body into rows. The body may be a list of
// objects, an object wrapping such a list in results, data or items, or a
// single object. Nested objects of a single object are flattened to
// dotted column names.
func DecodeRows(body []byte) (model.RawRows, error) {
	doc, err := oj.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	switch v := doc.(type) {
	case []any:
		return toRows(v)
	case map[string]any:
		for _, p := range listPaths {
			if res := p.Get(v); len(res) == 1 {
				if list, ok := res[0].([]any); ok {
					return toRows(list)
				}
			}
		}
		row := model.RawRow{}
		flatten("", v, row)
		return model.RawRows{row}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected JSON type %T", ErrUnexpectedResponse, doc)
	}
}

func toRows(list []any) (model.RawRows, error) {
	ret := make(model.RawRows, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T, not an object",
				ErrUnexpectedResponse, i, item)
		}
		ret = append(ret, m)
	}
	return ret, nil
}

func flatten(prefix string, m map[string]any, dst model.RawRow) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, dst)
			continue
		}
		dst[key] = v
	}
}
