package predicate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnd_EmptyMatchesAll(t *testing.T) {
	require.True(t, IsMatchAll(And()))
}

func TestOr_EmptyMatchesNone(t *testing.T) {
	require.True(t, IsMatchNone(Or()))
}

func TestAnd_ShortCircuitsOnMatchNone(t *testing.T) {
	e := And(Eq("a", 1), MatchNone())
	require.True(t, IsMatchNone(e))
}

func TestOr_ShortCircuitsOnMatchAll(t *testing.T) {
	e := Or(Eq("a", 1), MatchAll())
	require.True(t, IsMatchAll(e))
}

func TestAnd_SingleOperandCollapses(t *testing.T) {
	e := And(Eq("a", 1))
	require.Equal(t, EqExpr{Field: "a", Value: 1}, e)
}

func TestOr_FlattensNested(t *testing.T) {
	e := Or(Or(Eq("a", 1), Eq("b", 2)), Eq("c", 3))
	or, ok := e.(OrExpr)
	require.True(t, ok)
	require.Len(t, or.Operands, 3)
}

func TestToSQL_Eq(t *testing.T) {
	sql, args := ToSQL(Eq("target_region_id", "r1"), 1)
	require.Equal(t, "target_region_id = $1", sql)
	require.Equal(t, []interface{}{"r1"}, args)
}

func TestToSQL_NestedWithOffset(t *testing.T) {
	e := And(
		Or(Eq("target_region_id", "r1"), Eq("target_locality_id", "l1")),
		Eq("is_approved", true),
	)
	sql, args := ToSQL(e, 3)
	require.Equal(t, "((target_region_id = $3 OR target_locality_id = $4) AND is_approved = $5)", sql)
	require.Equal(t, []interface{}{"r1", "l1", true}, args)
}

func TestToSQL_IsNullMixed(t *testing.T) {
	e := Or(Eq("target_district_id", "d1"), IsNull("target_district_id"))
	sql, args := ToSQL(e, 1)
	require.Equal(t, "(target_district_id = $1 OR target_district_id IS NULL)", sql)
	require.Equal(t, []interface{}{"d1"}, args)
}

func TestToSQL_MatchNone(t *testing.T) {
	sql, args := ToSQL(MatchNone(), 1)
	require.Equal(t, "FALSE", sql)
	require.Empty(t, args)
}
