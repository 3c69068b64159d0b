package symbols

// AssignResult reports whether an assignment is allowed and, for the
// "implicit narrowing from any" case, a non-fatal warning message to
// attach as a diagnostic alongside the assignment.
type AssignResult struct {
	Allowed bool
	Warning string // non-empty only when Allowed and a warning applies
}

// IsAssignable applies spec.md §4.E's 12 ordered rules, top match wins.
func IsAssignable(source, target TypeInfo) AssignResult {
	// 1. target = Any => yes.
	if target.Kind() == KindAny {
		return AssignResult{Allowed: true}
	}

	// 2. source = Any => yes only if target = Any (handled above), else
	// yes with a warning.
	if source.Kind() == KindAny {
		return AssignResult{Allowed: true, Warning: "implicit narrowing from any"}
	}

	// 3. Structural equality => yes.
	if Equal(source, target) {
		return AssignResult{Allowed: true}
	}

	// 4. source = Null => yes iff target is Any (handled), a List, a Map,
	// a Class, or a Union containing Null.
	if source.Kind() == KindNull {
		switch target.Kind() {
		case KindList, KindMap, KindClass:
			return AssignResult{Allowed: true}
		case KindUnion:
			for _, m := range target.(Union).Members {
				if m.Kind() == KindNull {
					return AssignResult{Allowed: true}
				}
			}
		}
		return AssignResult{Allowed: false}
	}

	// 5. Numeric widenings: Int->Float, Int|Float->Number.
	if source.Kind() == KindInt && target.Kind() == KindFloat {
		return AssignResult{Allowed: true}
	}
	if (source.Kind() == KindInt || source.Kind() == KindFloat) && target.Kind() == KindNumber {
		return AssignResult{Allowed: true}
	}

	// 6. target = Union<...> => yes iff some member is assignable from
	// source.
	if target.Kind() == KindUnion {
		for _, m := range target.(Union).Members {
			if IsAssignable(source, m).Allowed {
				return AssignResult{Allowed: true}
			}
		}
		return AssignResult{Allowed: false}
	}

	// 7. source = Union<...> => yes iff every member is assignable to
	// target.
	if source.Kind() == KindUnion {
		for _, m := range source.(Union).Members {
			if !IsAssignable(m, target).Allowed {
				return AssignResult{Allowed: false}
			}
		}
		return AssignResult{Allowed: true}
	}

	// 8. List<S>->List<T> iff isAssignable(S,T); Map<SK,SV>->Map<TK,TV>
	// iff both key and value are assignable.
	if source.Kind() == KindList && target.Kind() == KindList {
		return IsAssignable(source.(List).Element, target.(List).Element)
	}
	if source.Kind() == KindMap && target.Kind() == KindMap {
		sm, tm := source.(Map), target.(Map)
		if !IsAssignable(sm.Key, tm.Key).Allowed {
			return AssignResult{Allowed: false}
		}
		return IsAssignable(sm.Value, tm.Value)
	}

	// 9. Tuple<...>->List<T> iff every element is assignable to T;
	// Tuple->Tuple iff arities match and pairwise assignable.
	if source.Kind() == KindTuple && target.Kind() == KindList {
		elemT := target.(List).Element
		for _, e := range source.(Tuple).Elements {
			if !IsAssignable(e, elemT).Allowed {
				return AssignResult{Allowed: false}
			}
		}
		return AssignResult{Allowed: true}
	}
	if source.Kind() == KindTuple && target.Kind() == KindTuple {
		st, tt := source.(Tuple), target.(Tuple)
		if len(st.Elements) != len(tt.Elements) {
			return AssignResult{Allowed: false}
		}
		for i := range st.Elements {
			if !IsAssignable(st.Elements[i], tt.Elements[i]).Allowed {
				return AssignResult{Allowed: false}
			}
		}
		return AssignResult{Allowed: true}
	}

	// 10. FunctionSignature => structural equality (conservative);
	// already covered by rule 3 if truly equal, so reaching here with two
	// FunctionSignatures means unequal => no, UNLESS rule 11 applies.
	// 11. Any FunctionSignature->FunctionKeyword => yes.
	if source.Kind() == KindFunctionSignature && target.Kind() == KindFunctionKeyword {
		return AssignResult{Allowed: true}
	}

	// 12. Otherwise => no.
	return AssignResult{Allowed: false}
}
