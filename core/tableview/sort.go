package tableview

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"
)

type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// SortState is the single active sort of a table.
type SortState struct {
	OrderBy string `json:"order_by"`
	Order   Order  `json:"order"`
}

// ParseOrdering parses an `ordering` parameter ("name", "-created_at") into a SortState.
// A leading "-" means descending. Only the first comma-separated field is used;
// def is returned when s holds no field.
func ParseOrdering(s string, def SortState) SortState {
	field := strings.TrimSpace(strings.SplitN(s, ",", 2)[0])
	descending := strings.HasPrefix(field, "-")
	if descending {
		field = strings.TrimSpace(field[1:]) // drop "-"
	}
	if field == "" {
		return def
	}
	if descending {
		return SortState{OrderBy: field, Order: Descending}
	}
	return SortState{OrderBy: field, Order: Ascending}
}

// String is the inverse of ParseOrdering.
func (s SortState) String() string {
	if s.Order == Descending {
		return "-" + s.OrderBy
	}
	return s.OrderBy
}

// Toggle returns the sort state after a click on the header of field:
// clicking the ascending column flips it to descending, any other click sorts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.OrderBy == field && s.Order != Descending {
		return SortState{OrderBy: field, Order: Descending}
	}
	return SortState{OrderBy: field, Order: Ascending}
}

// Compare orders a and b on s.OrderBy: negative when a goes first, positive when b goes first.
// Any Order other than Descending sorts ascending.
//
// A missing field sorts as the lowest possible value, whatever the type of the other value.
func Compare(a, b Row, s SortState) int {
	if s.Order == Descending {
		return descendingComparator(a, b, s.OrderBy)
	}
	return -descendingComparator(a, b, s.OrderBy)
}

// descendingComparator places greater values first.
func descendingComparator(a, b Row, orderBy string) int {
	va, aok := a.FieldValue(orderBy)
	vb, bok := b.FieldValue(orderBy)
	if !aok {
		va = nil
	}
	if !bok {
		vb = nil
	}
	return compareValues(vb, va)
}

// value kinds, in ascending order when two values of different kinds meet
const (
	kindMissing = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindTime
	kindString
)

type value struct {
	kind int
	b    bool
	i    int64
	u    uint64
	f    float64
	t    time.Time
	s    string
}

func normalize(v interface{}) value {
	if v == nil {
		return value{kind: kindMissing}
	}
	switch tv := v.(type) {
	case time.Time:
		return value{kind: kindTime, t: tv}
	case *time.Time:
		if tv == nil {
			return value{kind: kindMissing}
		}
		return value{kind: kindTime, t: *tv}
	case string:
		return value{kind: kindString, s: tv}
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return value{kind: kindMissing}
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return value{kind: kindBool, b: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value{kind: kindInt, i: rv.Int()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value{kind: kindUint, u: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return value{kind: kindFloat, f: rv.Float()}
	case reflect.String:
		return value{kind: kindString, s: rv.String()}
	}
	if t, ok := rv.Interface().(time.Time); ok {
		return value{kind: kindTime, t: t}
	}
	return value{kind: kindString, s: fmt.Sprint(rv.Interface())}
}

func (v value) isNumber() bool {
	return v.kind == kindInt || v.kind == kindUint || v.kind == kindFloat
}

func (v value) float() float64 {
	switch v.kind {
	case kindInt:
		return float64(v.i)
	case kindUint:
		return float64(v.u)
	}
	return v.f
}

// compareValues returns -1, 0 or 1 as x is lower than, equal to or greater than y.
func compareValues(x, y interface{}) int {
	vx, vy := normalize(x), normalize(y)

	if vx.isNumber() && vy.isNumber() && vx.kind != vy.kind {
		return compareFloats(vx.float(), vy.float())
	}
	if vx.kind != vy.kind {
		return compareInts(int64(vx.kind), int64(vy.kind))
	}

	switch vx.kind {
	case kindBool:
		return compareInts(boolInt(vx.b), boolInt(vy.b))
	case kindInt:
		return compareInts(vx.i, vy.i)
	case kindUint:
		switch {
		case vx.u < vy.u:
			return -1
		case vx.u > vy.u:
			return 1
		}
		return 0
	case kindFloat:
		return compareFloats(vx.f, vy.f)
	case kindTime:
		switch {
		case vx.t.Before(vy.t):
			return -1
		case vx.t.After(vy.t):
			return 1
		}
		return 0
	case kindString:
		return strings.Compare(vx.s, vy.s)
	}
	return 0 // both missing
}

func compareInts(x, y int64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// compareFloats sorts NaN below every other number so the order stays total.
func compareFloats(x, y float64) int {
	xNaN, yNaN := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xNaN && yNaN:
		return 0
	case xNaN:
		return -1
	case yNaN:
		return 1
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
