// Package expr parses flag targeting conditions such as
// `user.role == 'admin' AND NOT beta` into an intermediate expression
// tree.
//
// The grammar, lowest to highest precedence:
//
//	expr    := or
//	or      := and ( "OR" and )*
//	and     := not ( "AND" not )*
//	not     := "NOT" not | compare
//	compare := primary ( ( "==" | "!=" | ">" | "<" | ">=" | "<=" ) primary )?
//	primary := BOOLEAN | STRING | NUMBER | IDENT_PATH | "(" expr ")"
//
// Keywords (AND, OR, NOT, true, false) are matched case-sensitively;
// dotted identifiers like `user.role` are single tokens. Comparison
// chains (`a == b == c`) are rejected. [Parse] returns the
// string-bearing tree; the strtab package rewrites it to the interned
// form.
package expr
