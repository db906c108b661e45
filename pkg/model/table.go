package model

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/ohler55/ojg/oj"
)

// Table is anything that can be exported as rows and columns.
type Table interface {
	Header() []string
	Records() [][]string
}

// RawRow is one record as delivered by the remote API.
type RawRow = map[string]any

// RawRows is an untyped table. Columns are the sorted union of all keys.
type RawRows []RawRow

func (r RawRows) Header() []string {
	seen := map[string]struct{}{}
	ret := []string{}
	for _, row := range r {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				ret = append(ret, k)
			}
		}
	}
	sort.Strings(ret)
	return ret
}

func (r RawRows) Records() [][]string {
	header := r.Header()
	ret := make([][]string, 0, len(r))
	for _, row := range r {
		rec := make([]string, len(header))
		for i, col := range header {
			rec[i] = formatAny(row[col])
		}
		ret = append(ret, rec)
	}
	return ret
}

func formatAny(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return formatBool(x)
	case []any, map[string]any:
		return oj.JSON(x)
	default:
		return fmt.Sprint(x)
	}
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatNullFloat(v null.Val[float64]) string {
	if f, ok := v.Get(); ok {
		return formatFloat(f)
	}
	return ""
}

func formatNullInt(v null.Val[int]) string {
	if i, ok := v.Get(); ok {
		return formatInt(i)
	}
	return ""
}
