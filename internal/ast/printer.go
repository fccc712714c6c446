package ast

import (
	"fmt"
	"strings"
)

// Print renders a parenthesized debug form of a statement list, used by the
// `--dump-ast` CLI flag. It is not part of the language's observable
// behavior, only a debugging aid, so it stays a best-effort S-expression
// printer rather than a faithful unparser.
func Print(stmts []Stmt) string {
	var sb strings.Builder
	for _, s := range stmts {
		sb.WriteString(printStmt(s))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func printStmt(s Stmt) string {
	switch s := s.(type) {
	case *Block:
		parts := make([]string, len(s.Stmts))
		for i, inner := range s.Stmts {
			parts[i] = printStmt(inner)
		}
		return "(block " + strings.Join(parts, " ") + ")"
	case *ExpressionStmt:
		return printExpr(s.Expr)
	case *If:
		if s.Else != nil {
			return fmt.Sprintf("(if %s %s %s)", printExpr(s.Cond), printStmt(s.Then), printStmt(s.Else))
		}
		return fmt.Sprintf("(if %s %s)", printExpr(s.Cond), printStmt(s.Then))
	case *For:
		return fmt.Sprintf("(for %s)", printStmt(s.Body))
	case *Return:
		if s.Value != nil {
			return "(return " + printExpr(s.Value) + ")"
		}
		return "(return)"
	case *Var:
		if s.Init != nil {
			return fmt.Sprintf("(var %s %s)", s.Name.Lexeme, printExpr(s.Init))
		}
		return fmt.Sprintf("(var %s)", s.Name.Lexeme)
	case *Fun:
		return fmt.Sprintf("(fun %s)", s.Name.Lexeme)
	case *Class:
		return fmt.Sprintf("(class %s)", s.Name.Lexeme)
	case *Break:
		return "(break)"
	case *Continue:
		return "(continue)"
	default:
		return fmt.Sprintf("<unknown stmt %T>", s)
	}
}

func printExpr(e Expr) string {
	switch e := e.(type) {
	case *Assign:
		return fmt.Sprintf("(= %s %s)", e.Name.Lexeme, printExpr(e.Value))
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", e.Operator.Lexeme, printExpr(e.Left), printExpr(e.Right))
	case *Call:
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			parts[i] = printExpr(a)
		}
		return fmt.Sprintf("(call %s %s)", printExpr(e.Callee), strings.Join(parts, " "))
	case *Get:
		return fmt.Sprintf("(get %s %s)", printExpr(e.Object), e.Name.Lexeme)
	case *Grouping:
		return "(group " + printExpr(e.Inner) + ")"
	case *Literal:
		return e.Token.Lexeme
	case *Logical:
		return fmt.Sprintf("(%s %s %s)", e.Operator.Lexeme, printExpr(e.Left), printExpr(e.Right))
	case *Set:
		return fmt.Sprintf("(set %s %s %s)", printExpr(e.Object), e.Name.Lexeme, printExpr(e.Value))
	case *Super:
		return "(super " + e.Method.Lexeme + ")"
	case *This:
		return "(this)"
	case *Unary:
		return fmt.Sprintf("(%s %s)", e.Operator.Lexeme, printExpr(e.Right))
	case *Variable:
		return e.Name.Lexeme
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}
