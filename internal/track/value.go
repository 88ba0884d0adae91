package track

import (
	"strconv"
)

// ValueKind distinguishes the two kinds of attribute values a track row can
// carry.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	default:
		return "text"
	}
}

// Value is a tagged attribute value: either a number parsed at load time or
// the verbatim text of the column.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Number returns a numeric value.
func Number(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

// Text returns a textual value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind reports whether v is a number or text.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric content of v. Text values are parsed on demand;
// ok is false when that fails.
func (v Value) Float() (f float64, ok bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	f, err := strconv.ParseFloat(v.text, 64)
	return f, err == nil
}

// String renders v the way it is written back to the dataset. Numbers use
// the shortest representation that parses back to the same float64.
func (v Value) String() string {
	if v.kind == KindNumber {
		return formatFloat(v.num)
	}
	return v.text
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Attributes is an ordered mapping from column name to Value. The zero value
// is an empty mapping ready to use.
type Attributes struct {
	keys []string
	vals map[string]Value
}

// Set stores v under name, appending name to the key order if it is new.
func (a *Attributes) Set(name string, v Value) {
	if a.vals == nil {
		a.vals = make(map[string]Value)
	}
	if _, exists := a.vals[name]; !exists {
		a.keys = append(a.keys, name)
	}
	a.vals[name] = v
}

// Get returns the value stored under name.
func (a Attributes) Get(name string) (Value, bool) {
	v, ok := a.vals[name]
	return v, ok
}

// Float is a shortcut for Get followed by Value.Float.
func (a Attributes) Float(name string) (float64, bool) {
	v, ok := a.vals[name]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// Keys returns the column names in insertion order.
func (a Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of attributes.
func (a Attributes) Len() int { return len(a.keys) }

// Clone returns an independent copy of a.
func (a Attributes) Clone() Attributes {
	if len(a.keys) == 0 {
		return Attributes{}
	}
	c := Attributes{
		keys: make([]string, len(a.keys)),
		vals: make(map[string]Value, len(a.vals)),
	}
	copy(c.keys, a.keys)
	for k, v := range a.vals {
		c.vals[k] = v
	}
	return c
}
