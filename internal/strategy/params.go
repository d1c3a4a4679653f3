package strategy

import (
	"math"

	"github.com/rxtech-lab/argo-walkforward/internal/types"
	"github.com/rxtech-lab/argo-walkforward/pkg/errors"
)

// ParamSpec declares one numeric strategy parameter.
type ParamSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Default float64 `json:"default" yaml:"default"`
	// Min and Max are the range the optimizer scans.
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
	// Lower and Upper bound the values that produce a signal at all.
	Lower       float64 `json:"lower" yaml:"lower"`
	Upper       float64 `json:"upper" yaml:"upper"`
	Integer     bool    `json:"integer" yaml:"integer"`
	Optimizable bool    `json:"optimizable" yaml:"optimizable"`
}

// Valid reports whether v is usable for this parameter.
func (s ParamSpec) Valid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}

	if v < s.Lower || v > s.Upper {
		return false
	}

	return !s.Integer || v == math.Trunc(v)
}

func period(name string, def, lo, hi float64) ParamSpec {
	return ParamSpec{Name: name, Default: def, Min: lo, Max: hi, Lower: 1, Upper: 10000, Integer: true, Optimizable: true}
}

func level(name string, def, lo, hi, lower, upper float64) ParamSpec {
	return ParamSpec{Name: name, Default: def, Min: lo, Max: hi, Lower: lower, Upper: upper, Optimizable: true}
}

type resolved map[string]float64

func (r resolved) intOf(name string) int {
	return int(r[name])
}

func defaults(specs []ParamSpec) resolved {
	out := make(resolved, len(specs))
	for _, s := range specs {
		out[s.Name] = s.Default
	}

	return out
}

// Resolve merges params over the declared defaults and validates the result.
// Unknown names are ignored.
func Resolve(specs []ParamSpec, params types.Params) (map[string]float64, error) {
	out := defaults(specs)

	for _, s := range specs {
		v, ok := params[s.Name]
		if !ok {
			continue
		}

		if !s.Valid(v) {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "parameter %s=%v outside [%v, %v]", s.Name, v, s.Lower, s.Upper)
		}

		out[s.Name] = v
	}

	return out, nil
}
