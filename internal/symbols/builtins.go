package symbols

// installBuiltins preseeds the global scope with the eight builtin
// functions spec.md §3 names: print, type, tostring, tonumber, ipairs,
// pairs, error, assert.
func installBuiltins(global *Scope) {
	def := func(name string, sig FunctionSignature) {
		global.Define(&Symbol{
			Name:       name,
			SymbolKind: SymbolBuiltinFunction,
			Type:       sig,
			IsGlobal:   true,
			Doc:        builtinDocs[name],
		})
	}

	def("print", FunctionSignature{Params: []Param{{Name: "values", Type: Any}}, ReturnType: Void, IsVariadic: true})
	def("type", FunctionSignature{Params: []Param{{Name: "value", Type: Any}}, ReturnType: String})
	def("tostring", FunctionSignature{Params: []Param{{Name: "value", Type: Any}}, ReturnType: String})
	def("tonumber", FunctionSignature{Params: []Param{{Name: "value", Type: Any}}, ReturnType: mustUnion(Number, Null)})
	def("ipairs", FunctionSignature{Params: []Param{{Name: "list", Type: List{Element: Any}}}, ReturnType: Function})
	def("pairs", FunctionSignature{Params: []Param{{Name: "table", Type: Map{Key: Any, Value: Any}}}, ReturnType: Function})
	def("error", FunctionSignature{Params: []Param{{Name: "message", Type: String}}, ReturnType: Void})
	def("assert", FunctionSignature{Params: []Param{{Name: "condition", Type: Any}, {Name: "message", Type: String}}, ReturnType: Void, IsVariadic: true})
}

func mustUnion(members ...TypeInfo) TypeInfo {
	u, err := NewUnion(members)
	if err != nil {
		panic(err) // only reachable if a builtin signature above is malformed
	}
	return u
}

var builtinDocs = map[string]string{
	"print":    "Writes its arguments to standard output.",
	"type":     "Returns the runtime type name of a value as a string.",
	"tostring": "Converts a value to its string representation.",
	"tonumber": "Parses a value as a number, or returns null on failure.",
	"ipairs":   "Returns an iterator over a list's (index, value) pairs.",
	"pairs":    "Returns an iterator over a map's (key, value) pairs.",
	"error":    "Raises a runtime error with the given message.",
	"assert":   "Raises an error if condition is falsy.",
}
