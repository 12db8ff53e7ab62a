package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"offerbytes/internal/domain"
)

// Total re-applies overrides at now and sums the line subtotals. The host
// cart recomputes prices from scratch, so overrides are asserted again here.
func Total(lines []domain.CartLine, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, l := range Reconcile(lines, now).Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
