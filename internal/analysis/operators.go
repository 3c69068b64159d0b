package analysis

import "github.com/langls/server/internal/symbols"

// isNumeric reports whether t is one of Int, Float, or Number.
func isNumeric(t symbols.TypeInfo) bool {
	switch t.Kind() {
	case symbols.KindInt, symbols.KindFloat, symbols.KindNumber:
		return true
	}
	return false
}

// isStringCoercible reports whether t can appear as a `..` concat operand
// without an explicit tostring() call.
func isStringCoercible(t symbols.TypeInfo) bool {
	switch t.Kind() {
	case symbols.KindString, symbols.KindInt, symbols.KindFloat, symbols.KindNumber, symbols.KindBool, symbols.KindAny:
		return true
	}
	return false
}

// arithmeticResult implements spec.md §4.F's numeric promotion rule for
// `+ - * %`: Int op Int -> Int, any other numeric mix -> Float unless
// either side is already the widened Number, in which case the result
// stays Number.
func arithmeticResult(left, right symbols.TypeInfo) (symbols.TypeInfo, bool) {
	if !isNumeric(left) || !isNumeric(right) {
		return symbols.Unknown, false
	}
	if left.Kind() == symbols.KindInt && right.Kind() == symbols.KindInt {
		return symbols.Int, true
	}
	if left.Kind() == symbols.KindNumber || right.Kind() == symbols.KindNumber {
		return symbols.Number, true
	}
	return symbols.Float, true
}

// binaryResult is the full operator typing table referenced (in
// representative form) by spec.md §4.F. op is the literal token text the
// parser attached to the BinaryExpr (see internal/ast's Operator consts
// and the `..`/`#` literals internal/langsyntax's parser produces
// directly, since Lang's grammar has no distinct bitwise operator tokens
// to type).
func binaryResult(op string, left, right symbols.TypeInfo) (symbols.TypeInfo, string) {
	switch op {
	case "+", "-", "*", "%":
		if t, ok := arithmeticResult(left, right); ok {
			return t, ""
		}
		return symbols.Unknown, "operator " + op + " requires numeric operands"

	case "/":
		// Int/Int division in Lang stays Int (spec.md §9 Open Question,
		// resolved in DESIGN.md); any other numeric mix widens to Float.
		if left.Kind() == symbols.KindInt && right.Kind() == symbols.KindInt {
			return symbols.Int, ""
		}
		if isNumeric(left) && isNumeric(right) {
			return symbols.Float, ""
		}
		return symbols.Unknown, "operator / requires numeric operands"

	case "..":
		if isStringCoercible(left) && isStringCoercible(right) {
			return symbols.String, ""
		}
		return symbols.Unknown, "operator .. requires operands coercible to string"

	case "==", "!=":
		return symbols.Bool, ""

	case "<", "<=", ">", ">=":
		if isNumeric(left) && isNumeric(right) {
			return symbols.Bool, ""
		}
		if left.Kind() == symbols.KindString && right.Kind() == symbols.KindString {
			return symbols.Bool, ""
		}
		return symbols.Unknown, "operator " + op + " requires two numbers or two strings"

	case "&&", "||":
		if symbols.Equal(left, right) {
			return left, ""
		}
		if u, err := symbols.NewUnion([]symbols.TypeInfo{left, right}); err == nil {
			return u, ""
		}
		return left, ""

	default:
		return symbols.Unknown, "unknown operator " + op
	}
}

// unaryResult types `! - #` per spec.md §4.F.
func unaryResult(op string, operand symbols.TypeInfo) (symbols.TypeInfo, string) {
	switch op {
	case "!":
		return symbols.Bool, ""
	case "-", "-u":
		if isNumeric(operand) {
			return operand, ""
		}
		return symbols.Unknown, "unary - requires a numeric operand"
	case "#":
		switch operand.Kind() {
		case symbols.KindList, symbols.KindMap, symbols.KindString, symbols.KindTuple:
			return symbols.Int, ""
		}
		return symbols.Unknown, "unary # requires a list, map, string, or tuple"
	default:
		return symbols.Unknown, "unknown unary operator " + op
	}
}
