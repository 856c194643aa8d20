package plan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Plan carries the subscription terms attached to a subscription_plan item.
type Plan struct {
	ItemID       uuid.UUID
	PriceAmount  int64
	Currency     string
	PeriodMonths int
}

func (p *Plan) Validate() error {
	if p.ItemID == uuid.Nil {
		return errors.New("item is required")
	}
	if p.PriceAmount < 0 {
		return errors.New("price must not be negative")
	}
	if p.PeriodMonths <= 0 {
		return errors.New("period must be at least one month")
	}
	return nil
}

// CurrentPeriodEnd computes when the period containing now ends for a
// subscription opened at start.
func (p *Plan) CurrentPeriodEnd(start, now time.Time) time.Time {
	end := PeriodEnd(start, p.PeriodMonths)
	for !end.After(now) {
		start = end
		end = PeriodEnd(start, p.PeriodMonths)
	}
	return end
}
