package plan_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tanzim-io/tanzim/modules/content/domain/plan"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPeriodEnd_PlainMonth(t *testing.T) {
	require.Equal(t, date(2026, time.April, 15), plan.PeriodEnd(date(2026, time.March, 15), 1))
	require.Equal(t, date(2026, time.September, 1), plan.PeriodEnd(date(2026, time.March, 1), 6))
}

func TestPeriodEnd_ClampsDayOverflow(t *testing.T) {
	// Jan 31 + 1 month must not roll into March.
	require.Equal(t, date(2026, time.February, 28), plan.PeriodEnd(date(2026, time.January, 31), 1))
	require.Equal(t, date(2024, time.February, 29), plan.PeriodEnd(date(2024, time.January, 31), 1))
	require.Equal(t, date(2026, time.April, 30), plan.PeriodEnd(date(2026, time.March, 31), 1))
}

func TestPeriodEnd_YearRollover(t *testing.T) {
	require.Equal(t, date(2027, time.January, 10), plan.PeriodEnd(date(2026, time.November, 10), 2))
	require.Equal(t, date(2027, time.November, 10), plan.PeriodEnd(date(2026, time.November, 10), 12))
}

func TestPeriodEnd_PreservesClock(t *testing.T) {
	start := time.Date(2026, time.May, 20, 13, 45, 30, 0, time.UTC)
	end := plan.PeriodEnd(start, 3)
	require.Equal(t, time.Date(2026, time.August, 20, 13, 45, 30, 0, time.UTC), end)
}

func TestPlan_CurrentPeriodEnd(t *testing.T) {
	p := &plan.Plan{ItemID: uuid.New(), PriceAmount: 1000, Currency: "UZS", PeriodMonths: 1}
	require.NoError(t, p.Validate())

	start := date(2026, time.January, 1)
	now := date(2026, time.March, 10)
	require.Equal(t, date(2026, time.April, 1), p.CurrentPeriodEnd(start, now))
}

func TestPlan_Validate(t *testing.T) {
	p := &plan.Plan{ItemID: uuid.New(), PeriodMonths: 0}
	require.Error(t, p.Validate())

	p.PeriodMonths = -1
	require.Error(t, p.Validate())

	p.PeriodMonths = 12
	p.PriceAmount = -5
	require.Error(t, p.Validate())
}
