package docschema

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Kind identifies the type carried by a Value.
type Kind int

// Value kinds accepted by the index schema.
const (
	KindString Kind = iota + 1
	KindDate
	KindInt
	KindFloat
	KindBool
	KindStrings
	KindBoosted
)

var kindNames = map[Kind]string{
	KindString:  "string",
	KindDate:    "date",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindStrings: "strings",
	KindBoosted: "boosted",
}

// String returns the kind name used in storage and CLI output.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the Kind for a name produced by Kind.String.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, Errorf(EINVALID, "unknown value kind %q", name)
}

// Value is a typed field value. The zero Value is invalid; use the
// constructors.
type Value struct {
	kind  Kind
	str   string
	date  time.Time
	num   int64
	float float64
	flag  bool
	strs  []string
	boost float64
}

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// DateValue returns a date value, normalized to UTC.
func DateValue(t time.Time) Value { return Value{kind: KindDate, date: t.UTC()} }

// IntValue returns an integer value.
func IntValue(n int64) Value { return Value{kind: KindInt, num: n} }

// FloatValue returns a floating point value.
func FloatValue(f float64) Value { return Value{kind: KindFloat, float: f} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBool, flag: b} }

// StringsValue returns a string array value. The slice is copied.
func StringsValue(ss []string) Value {
	return Value{kind: KindStrings, strs: append([]string{}, ss...)}
}

// BoostedValue returns a string value carrying a relevance boost.
func BoostedValue(s string, boost float64) Value {
	return Value{kind: KindBoosted, str: s, boost: boost}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string of a String or Boosted value.
func (v Value) Str() string { return v.str }

// Time returns the time of a Date value.
func (v Value) Time() time.Time { return v.date }

// Int returns the integer of an Int value.
func (v Value) Int() int64 { return v.num }

// Float returns the float of a Float value.
func (v Value) Float() float64 { return v.float }

// Bool returns the flag of a Bool value.
func (v Value) Bool() bool { return v.flag }

// Strings returns a copy of the array of a Strings value.
func (v Value) Strings() []string { return append([]string{}, v.strs...) }

// Boost returns the boost of a Boosted value.
func (v Value) Boost() float64 { return v.boost }

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindDate:
		return v.date.Equal(o.date)
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.float == o.float
	case KindBool:
		return v.flag == o.flag
	case KindStrings:
		return slices.Equal(v.strs, o.strs)
	case KindBoosted:
		return v.str == o.str && v.boost == o.boost
	}
	return true
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindDate:
		return v.date.Format(time.RFC3339)
	case KindInt:
		return fmt.Sprintf("%d", v.num)
	case KindFloat:
		return fmt.Sprintf("%g", v.float)
	case KindBool:
		return fmt.Sprintf("%t", v.flag)
	case KindStrings:
		return fmt.Sprintf("%q", v.strs)
	case KindBoosted:
		return fmt.Sprintf("%s^%g", v.str, v.boost)
	}
	return ""
}

type boostedJSON struct {
	Value string  `json:"value"`
	Boost float64 `json:"boost"`
}

// MarshalJSON encodes the value in the form an index ingestion endpoint
// expects. Boosted values become {"value": ..., "boost": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindDate:
		return json.Marshal(v.date.Format(time.RFC3339))
	case KindInt:
		return json.Marshal(v.num)
	case KindFloat:
		return json.Marshal(v.float)
	case KindBool:
		return json.Marshal(v.flag)
	case KindStrings:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.strs)
	case KindBoosted:
		return json.Marshal(boostedJSON{Value: v.str, Boost: v.boost})
	}
	return nil, Errorf(EINVALID, "cannot encode value of %s", v.kind)
}

// UnmarshalValue decodes data produced by Value.MarshalJSON for a known kind.
func UnmarshalValue(kind Kind, data []byte) (Value, error) {
	var err error
	switch kind {
	case KindString:
		var s string
		err = json.Unmarshal(data, &s)
		return StringValue(s), err
	case KindDate:
		var s string
		if err = json.Unmarshal(data, &s); err != nil {
			return Value{}, err
		}
		t, err := time.Parse(time.RFC3339, s)
		return DateValue(t), err
	case KindInt:
		var n int64
		err = json.Unmarshal(data, &n)
		return IntValue(n), err
	case KindFloat:
		var f float64
		err = json.Unmarshal(data, &f)
		return FloatValue(f), err
	case KindBool:
		var b bool
		err = json.Unmarshal(data, &b)
		return BoolValue(b), err
	case KindStrings:
		var ss []string
		err = json.Unmarshal(data, &ss)
		return StringsValue(ss), err
	case KindBoosted:
		var bv boostedJSON
		err = json.Unmarshal(data, &bv)
		return BoostedValue(bv.Value, bv.Boost), err
	}
	return Value{}, Errorf(EINVALID, "cannot decode value of %s", kind)
}
