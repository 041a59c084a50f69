package barb

import "fmt"

// buildGeneratorSequence materializes `{start..step..end}` for the
// numeric kinds the host contract guarantees the reducer itself
// understands (spec.md §2 names int64 and float64 as the built-in
// numeric representations host values normalize to). start, step, and
// end must share exactly one of those kinds.
func buildGeneratorSequence(start, step, end any) (any, error) {
	switch s := start.(type) {
	case int64:
		st, ok1 := step.(int64)
		en, ok2 := end.(int64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("generator bounds must share one numeric type, got %T/%T/%T", start, step, end)
		}
		return intSequence(s, st, en)
	case float64:
		st, ok1 := step.(float64)
		en, ok2 := end.(float64)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("generator bounds must share one numeric type, got %T/%T/%T", start, step, end)
		}
		return floatSequence(s, st, en)
	default:
		return nil, fmt.Errorf("generator start must be int64 or float64, got %T", start)
	}
}

func intSequence(start, step, end int64) ([]int64, error) {
	if step == 0 {
		return nil, fmt.Errorf("generator step must not be 0")
	}
	var out []int64
	if step > 0 {
		for v := start; v <= end; v += step {
			out = append(out, v)
		}
		return out, nil
	}
	for v := start; v >= end; v += step {
		out = append(out, v)
	}
	return out, nil
}

func floatSequence(start, step, end float64) ([]float64, error) {
	if step == 0 {
		return nil, fmt.Errorf("generator step must not be 0")
	}
	var out []float64
	if step > 0 {
		for v := start; v <= end; v += step {
			out = append(out, v)
		}
		return out, nil
	}
	for v := start; v >= end; v += step {
		out = append(out, v)
	}
	return out, nil
}
