package predicate

// Expr is an abstract boolean expression over named fields. Services build
// Exprs and hand them to the persistence layer, which renders them into its
// native query language. Exprs are immutable once built.
type Expr interface {
	isExpr()
}

// EqExpr matches rows whose Field equals Value.
type EqExpr struct {
	Field string
	Value interface{}
}

// AndExpr matches rows satisfying every operand. An empty AndExpr matches all.
type AndExpr struct {
	Operands []Expr
}

// OrExpr matches rows satisfying at least one operand. An empty OrExpr
// matches none.
type OrExpr struct {
	Operands []Expr
}

// IsNullExpr matches rows whose Field is null.
type IsNullExpr struct {
	Field string
}

// MatchAllExpr matches every row.
type MatchAllExpr struct{}

// MatchNoneExpr matches no row. It is the fail-closed default.
type MatchNoneExpr struct{}

func (EqExpr) isExpr()        {}
func (IsNullExpr) isExpr()    {}
func (AndExpr) isExpr()       {}
func (OrExpr) isExpr()        {}
func (MatchAllExpr) isExpr()  {}
func (MatchNoneExpr) isExpr() {}

func Eq(field string, value interface{}) Expr {
	return EqExpr{Field: field, Value: value}
}

func IsNull(field string) Expr {
	return IsNullExpr{Field: field}
}

// And flattens nested conjunctions and short-circuits on MatchNone.
func And(operands ...Expr) Expr {
	flat := make([]Expr, 0, len(operands))
	for _, op := range operands {
		switch typed := op.(type) {
		case MatchAllExpr:
			continue
		case MatchNoneExpr:
			return MatchNone()
		case AndExpr:
			flat = append(flat, typed.Operands...)
		default:
			flat = append(flat, op)
		}
	}
	if len(flat) == 0 {
		return MatchAll()
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return AndExpr{Operands: flat}
}

// Or flattens nested disjunctions and short-circuits on MatchAll.
func Or(operands ...Expr) Expr {
	flat := make([]Expr, 0, len(operands))
	for _, op := range operands {
		switch typed := op.(type) {
		case MatchNoneExpr:
			continue
		case MatchAllExpr:
			return MatchAll()
		case OrExpr:
			flat = append(flat, typed.Operands...)
		default:
			flat = append(flat, op)
		}
	}
	if len(flat) == 0 {
		return MatchNone()
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return OrExpr{Operands: flat}
}

func MatchAll() Expr {
	return MatchAllExpr{}
}

func MatchNone() Expr {
	return MatchNoneExpr{}
}

// IsMatchNone reports whether the expression can never match. Callers use it
// to skip queries entirely for empty scopes.
func IsMatchNone(e Expr) bool {
	_, ok := e.(MatchNoneExpr)
	return ok
}

// IsMatchAll reports whether the expression matches unconditionally.
func IsMatchAll(e Expr) bool {
	_, ok := e.(MatchAllExpr)
	return ok
}
