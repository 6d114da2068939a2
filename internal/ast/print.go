package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a simple indented outline of a statement list, used by
// this package's tests. It is
// debug output, not a serialization format: it leans on each node's
// String() rather than re-deriving structure reflectively.
func Dump(w io.Writer, stmts []Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, s := range stmts {
		fmt.Fprintf(w, "%s%s\n", pad, s)
		switch n := s.(type) {
		case *FunctionDef:
			Dump(w, n.Body, indent+1)
		case *ClassDef:
			Dump(w, n.Body, indent+1)
		case *IfStmt:
			Dump(w, n.Body, indent+1)
			if len(n.Else) > 0 {
				fmt.Fprintf(w, "%selse:\n", pad)
				Dump(w, n.Else, indent+1)
			}
		case *ForStmt:
			Dump(w, n.Body, indent+1)
		case *WhileStmt:
			Dump(w, n.Body, indent+1)
		case *WithStmt:
			Dump(w, n.Body, indent+1)
		case *TryStmt:
			Dump(w, n.Body, indent+1)
			for _, h := range n.Handlers {
				fmt.Fprintf(w, "%s%s\n", pad, h)
				Dump(w, h.Body, indent+1)
			}
			if len(n.Finally) > 0 {
				fmt.Fprintf(w, "%sfinally:\n", pad)
				Dump(w, n.Finally, indent+1)
			}
		}
	}
}
