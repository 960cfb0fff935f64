package lower

import "strconv"

// intLiteral renders a folded signed constant as C source text.
func intLiteral(i int64) string {
	return strconv.FormatInt(i, 10)
}

// uintLiteral renders an array length or other unsigned quantity as C
// source text.
func uintLiteral(u uint64) string {
	return strconv.FormatUint(u, 10)
}

// floatLiteral renders a folded floating-point constant as C source text,
// always including a decimal point or exponent so the result parses as a
// double literal rather than an integer.
func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' || c == 'E' || c == 'n' || c == 'i' { // handles Inf/NaN text too
			return s
		}
	}
	return s + ".0"
}

// newTemp allocates the next `_tN` hoisted-temporary name for the function
// currently being lowered (evaluation-order normalization, spec.md §4.5).
func (l *Lowerer) newTemp() string {
	name := "_t" + strconv.Itoa(l.tempCounter)
	l.tempCounter++
	return name
}

// newLabel allocates the next cleanup-goto label for the function currently
// being lowered (defer lowering, spec.md §9).
func (l *Lowerer) newLabel() string {
	name := "_cleanup" + strconv.Itoa(l.labelCounter)
	l.labelCounter++
	return name
}
