package predicate

import (
	"fmt"
	"strings"
)

// ToSQL renders an Expr into a parameterized SQL condition using positional
// placeholders starting at startArg ($1-style, pgx convention). Field names
// are emitted verbatim: builders only use trusted column identifiers, never
// request input.
func ToSQL(e Expr, startArg int) (string, []interface{}) {
	var sb strings.Builder
	args := make([]interface{}, 0, 8)
	render(&sb, &args, e, startArg)
	return sb.String(), args
}

func render(sb *strings.Builder, args *[]interface{}, e Expr, startArg int) {
	switch typed := e.(type) {
	case MatchAllExpr:
		sb.WriteString("TRUE")
	case MatchNoneExpr:
		sb.WriteString("FALSE")
	case EqExpr:
		*args = append(*args, typed.Value)
		fmt.Fprintf(sb, "%s = $%d", typed.Field, startArg+len(*args)-1)
	case IsNullExpr:
		fmt.Fprintf(sb, "%s IS NULL", typed.Field)
	case AndExpr:
		renderJoined(sb, args, typed.Operands, " AND ", startArg)
	case OrExpr:
		renderJoined(sb, args, typed.Operands, " OR ", startArg)
	default:
		sb.WriteString("FALSE")
	}
}

func renderJoined(sb *strings.Builder, args *[]interface{}, operands []Expr, sep string, startArg int) {
	sb.WriteString("(")
	for i, op := range operands {
		if i > 0 {
			sb.WriteString(sep)
		}
		render(sb, args, op, startArg)
	}
	sb.WriteString(")")
}
