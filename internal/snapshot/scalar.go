package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Scalar is a float64 whose JSON form also covers NaN and the infinities,
// encoded as the strings "NaN", "+Inf" and "-Inf". Finite values use the
// shortest representation that round-trips exactly.
type Scalar float64

// MarshalJSON implements json.Marshaler.
func (s Scalar) MarshalJSON() ([]byte, error) {
	f := float64(s)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		switch text {
		case "NaN":
			*s = Scalar(math.NaN())
		case "+Inf":
			*s = Scalar(math.Inf(1))
		case "-Inf":
			*s = Scalar(math.Inf(-1))
		default:
			return fmt.Errorf("invalid number %q", text)
		}
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("number expected, got null")
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid number %s", data)
	}
	*s = Scalar(f)
	return nil
}

// Vec2 is the wire form of an r2.Vec.
type Vec2 struct {
	X Scalar `json:"x"`
	Y Scalar `json:"y"`
}

// FromVec converts a vector to its wire form.
func FromVec(v r2.Vec) Vec2 {
	return Vec2{X: Scalar(v.X), Y: Scalar(v.Y)}
}

// Vec converts the wire form back to a vector.
func (v Vec2) Vec() r2.Vec {
	return r2.Vec{X: float64(v.X), Y: float64(v.Y)}
}

// Encode returns the compact JSON encoding of v. It is meant for wire
// structs built from strings, Scalars and slices of those, whose encoding
// cannot fail; a failure is therefore a programming error and panics.
func Encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("snapshot: cannot encode %T: %v", v, err))
	}
	return string(data)
}

// Decode parses exactly one JSON value from data into v. Unknown fields
// and trailing data are rejected. Every failure wraps ErrDeserialize.
func Decode(data string, v any) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrDeserialize, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after state", ErrDeserialize)
	}
	return nil
}
