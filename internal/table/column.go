package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one record as returned by the data source.
type Row map[string]any

// String returns the value at key formatted for display.
func (r Row) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "yes"
		}
		return "no"
	default:
		return fmt.Sprint(val)
	}
}

// Column describes how one field of a Row is displayed.
type Column struct {
	Key      string
	Header   string
	Cell     func(Row) string // nil renders Row.String(Key)
	Sortable bool
	Status   bool // painted with Palette.Status
	Width    int  // 0 shares the remaining width
}

// Render returns the cell text for row.
func (c Column) Render(row Row) string {
	if c.Cell != nil {
		return c.Cell(row)
	}
	return row.String(c.Key)
}

// Filter is a screen-declared filter with a fixed set of values. The empty
// value means "all".
type Filter struct {
	Key    string
	Label  string
	Values []string
}

// next returns the value after current, wrapping through "all".
func (f Filter) next(current string) string {
	if len(f.Values) == 0 {
		return ""
	}
	current = strings.TrimSpace(current)
	if current == "" {
		return f.Values[0]
	}
	for i, v := range f.Values {
		if v == current {
			if i+1 < len(f.Values) {
				return f.Values[i+1]
			}
			return ""
		}
	}
	return ""
}
