package interp

// ValuesEqual exposes valuesEqual for the stdlib package (std.equals,
// std.set* dedup, and primitive-equality helpers).
func (i *Interp) ValuesEqual(a, b Value) (bool, error) { return i.valuesEqual(a, b) }

// CompareValues exposes compareValues for the stdlib package (std.sort,
// std.uniq, set operations with a custom keyF).
func (i *Interp) CompareValues(a, b Value) (int, error) { return i.compareValues(a, b) }

// valuesEqual implements structural equality, per spec.md §4.4 ("==
// compares structurally; functions are never equal, even to themselves").
func (i *Interp) valuesEqual(a, b Value) (bool, error) {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok, nil
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.B == bv.B, nil
	case Number:
		bv, ok := b.(Number)
		return ok && av.N == bv.N, nil
	case String:
		bv, ok := b.(String)
		return ok && av.Go() == bv.Go(), nil
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false, nil
		}
		for idx := range av.Elems {
			ea, err := av.Elems[idx].Force(i)
			if err != nil {
				return false, err
			}
			eb, err := bv.Elems[idx].Force(i)
			if err != nil {
				return false, err
			}
			eq, err := i.valuesEqual(ea, eb)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return false, nil
		}
		an := av.Fields(false)
		bn := bv.Fields(false)
		if len(an) != len(bn) {
			return false, nil
		}
		for idx, name := range an {
			if name != bn[idx] {
				return false, nil
			}
			fa, err := av.GetField(i, name)
			if err != nil {
				return false, err
			}
			fb, err := bv.GetField(i, name)
			if err != nil {
				return false, err
			}
			eq, err := i.valuesEqual(fa, fb)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case Function:
		return false, nil
	default:
		return false, i.Errorf("cannot test equality of %s", a.TypeName())
	}
}

// compareValues implements the total order used by <, <=, >, >=, and by
// std.sort's default comparator: numbers and strings order natively,
// arrays order lexicographically by element, per spec.md §4.4.
func (i *Interp) compareValues(a, b Value) (int, error) {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return 0, i.Errorf("comparison: expected number, got %s", b.TypeName())
		}
		switch {
		case av.N < bv.N:
			return -1, nil
		case av.N > bv.N:
			return 1, nil
		default:
			return 0, nil
		}
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, i.Errorf("comparison: expected string, got %s", b.TypeName())
		}
		ar, br := av.R, bv.R
		for idx := 0; idx < len(ar) && idx < len(br); idx++ {
			if ar[idx] != br[idx] {
				if ar[idx] < br[idx] {
					return -1, nil
				}
				return 1, nil
			}
		}
		switch {
		case len(ar) < len(br):
			return -1, nil
		case len(ar) > len(br):
			return 1, nil
		default:
			return 0, nil
		}
	case Array:
		bv, ok := b.(Array)
		if !ok {
			return 0, i.Errorf("comparison: expected array, got %s", b.TypeName())
		}
		for idx := 0; idx < len(av.Elems) && idx < len(bv.Elems); idx++ {
			ea, err := av.Elems[idx].Force(i)
			if err != nil {
				return 0, err
			}
			eb, err := bv.Elems[idx].Force(i)
			if err != nil {
				return 0, err
			}
			c, err := i.compareValues(ea, eb)
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		switch {
		case len(av.Elems) < len(bv.Elems):
			return -1, nil
		case len(av.Elems) > len(bv.Elems):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, i.Errorf("cannot order values of type %s", a.TypeName())
	}
}
