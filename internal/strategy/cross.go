package strategy

import "github.com/rxtech-lab/argo-walkforward/internal/types"

// crossAbove reports a line a moving from not-above to above line b at i.
// A missing previous value counts as not above, so the first bar after warm-up
// fires when the lines are already apart.
func crossAbove(a, b types.Series, i int) bool {
	cur, ok := above(a, b, i)
	if !ok || !cur {
		return false
	}

	prev, ok := above(a, b, i-1)

	return !ok || !prev
}

// crossBelow mirrors crossAbove.
func crossBelow(a, b types.Series, i int) bool {
	cur, ok := below(a, b, i)
	if !ok || !cur {
		return false
	}

	prev, ok := below(a, b, i-1)

	return !ok || !prev
}

func above(a, b types.Series, i int) (bool, bool) {
	x, okA := a.At(i)
	y, okB := b.At(i)

	return x > y, okA && okB
}

func below(a, b types.Series, i int) (bool, bool) {
	x, okA := a.At(i)
	y, okB := b.At(i)

	return x < y, okA && okB
}

// levelCrossUp reports s moving from at-or-below level to above it. Both bars
// must be present.
func levelCrossUp(s types.Series, level float64, i int) bool {
	prev, okP := s.At(i - 1)
	cur, okC := s.At(i)

	return okP && okC && prev <= level && cur > level
}

// levelCrossDown reports s moving from at-or-above level to below it.
func levelCrossDown(s types.Series, level float64, i int) bool {
	prev, okP := s.At(i - 1)
	cur, okC := s.At(i)

	return okP && okC && prev >= level && cur < level
}

func snapshot(pairs ...any) map[string]float64 {
	out := make(map[string]float64, len(pairs)/2)

	for j := 0; j+1 < len(pairs); j += 2 {
		name, _ := pairs[j].(string)

		switch v := pairs[j+1].(type) {
		case float64:
			out[name] = v
		case int:
			out[name] = float64(v)
		}
	}

	return out
}

func valueAt(s types.Series, i int) float64 {
	v, _ := s.At(i)

	return v
}
