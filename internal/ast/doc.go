// Package ast defines the tolerant AST for Lang (spec.md §3 "Tolerant
// AST (C)"). A parse failure never leaves a required child nil — it
// produces an ErrorExpr, ErrorStmt, ErrorDecl, or ErrorType node instead.
// Optional parts the source omitted (an initializer, a parameter default,
// an else branch, a for-loop clause) are nil, as each such field's comment
// says, so consumers nil-check exactly those fields.
//
// Traversal uses the "exhaustive sum-type matching" pattern spec.md §9
// recommends in place of a visitor class hierarchy: every Node reports a
// Kind(), and callers switch on it rather than implementing a Visit method
// per concrete type.
package ast
