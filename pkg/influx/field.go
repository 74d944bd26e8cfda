package influx

import (
	"fmt"
	"strconv"
)

type FieldKind string

const (
	FieldKindBoolean FieldKind = "boolean"
	FieldKindFloat   FieldKind = "float"
	FieldKindInteger FieldKind = "integer"
	FieldKindString  FieldKind = "string"
)

// Field is a single field value. Fields are immutable; use one of the
// constructors to create them.
//
// The zero value has no kind and encodes as an empty value, so a point
// carrying it serializes as "key a=", which the server rejects.
type Field struct {
	kind FieldKind

	b bool
	f float64
	i int64
	s string
}

type Fields map[string]Field

func BooleanField(value bool) Field {
	return Field{kind: FieldKindBoolean, b: value}
}

func FloatField(value float64) Field {
	return Field{kind: FieldKindFloat, f: value}
}

func IntegerField(value int64) Field {
	return Field{kind: FieldKindInteger, i: value}
}

func StringField(value string) Field {
	return Field{kind: FieldKindString, s: value}
}

// FieldFromValue converts a Go scalar to a field. Unsigned integers larger
// than math.MaxInt64 are rejected.
func FieldFromValue(value interface{}) (Field, error) {
	switch v := value.(type) {
	case Field:
		return v, nil
	case bool:
		return BooleanField(v), nil
	case float32:
		return FloatField(float64(v)), nil
	case float64:
		return FloatField(v), nil
	case int:
		return IntegerField(int64(v)), nil
	case int8:
		return IntegerField(int64(v)), nil
	case int16:
		return IntegerField(int64(v)), nil
	case int32:
		return IntegerField(int64(v)), nil
	case int64:
		return IntegerField(v), nil
	case uint:
		return uintField(uint64(v))
	case uint8:
		return IntegerField(int64(v)), nil
	case uint16:
		return IntegerField(int64(v)), nil
	case uint32:
		return IntegerField(int64(v)), nil
	case uint64:
		return uintField(v)
	case string:
		return StringField(v), nil
	case []byte:
		return StringField(string(v)), nil
	default:
		return Field{}, fmt.Errorf("unsupported field value type %T", value)
	}
}

func uintField(v uint64) (Field, error) {
	if v > 1<<63-1 {
		return Field{}, fmt.Errorf("integer value %d is out of range", v)
	}

	return IntegerField(int64(v)), nil
}

func (f Field) Kind() FieldKind {
	return f.kind
}

func (f Field) Boolean() bool {
	return f.b
}

func (f Field) Float() float64 {
	return f.f
}

func (f Field) Integer() int64 {
	return f.i
}

// String returns the line protocol representation of the field value. String
// values are returned as is: they are neither quoted nor escaped.
func (f Field) String() string {
	switch f.kind {
	case FieldKindBoolean:
		if f.b {
			return "t"
		}
		return "f"

	case FieldKindFloat:
		return strconv.FormatFloat(f.f, 'f', -1, 64)

	case FieldKindInteger:
		return strconv.FormatInt(f.i, 10) + "i"

	case FieldKindString:
		return f.s
	}

	return ""
}

func (f Field) GoString() string {
	return fmt.Sprintf("influx.Field{%s: %s}", f.kind, f.String())
}
