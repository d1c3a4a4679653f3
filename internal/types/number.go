package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float64 metric that keeps undefined values distinguishable from
// zero when serialized: NaN becomes null and ±Inf become "Infinity"/"-Infinity".
type Number float64

// Undefined is the sentinel for a metric that could not be computed.
var Undefined = Number(math.NaN())

// Float returns the raw value.
func (n Number) Float() float64 {
	return float64(n)
}

// IsDefined reports whether the value is not NaN.
func (n Number) IsDefined() bool {
	return !math.IsNaN(float64(n))
}

// IsFinite reports whether the value is neither NaN nor infinite.
func (n Number) IsFinite() bool {
	f := float64(n)

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)

	switch {
	case math.IsNaN(f):
		return []byte("null"), nil
	case math.IsInf(f, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Infinity"`), nil
	}

	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null":
		*n = Undefined

		return nil
	case `"Infinity"`:
		*n = Number(math.Inf(1))

		return nil
	case `"-Infinity"`:
		*n = Number(math.Inf(-1))

		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	*n = Number(f)

	return nil
}
