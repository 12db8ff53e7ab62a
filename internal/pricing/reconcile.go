// Package pricing resolves cart line overrides against the clock.
//
// Expiry is evaluated lazily: every cart load and every totals pass runs
// Reconcile, so no background job is needed to revert expired offers.
package pricing

import (
	"time"

	"offerbytes/internal/domain"
)

// ExpiredNotice is queued once per line whose offer lapsed.
const ExpiredNotice = "Your time to complete the purchase has passed. The product price was changed to its regular price."

// Result is the outcome of one reconciliation pass.
type Result struct {
	Lines []domain.CartLine
	// Changed holds the indexes of Lines whose stored state differs from the input.
	Changed            []int
	NeedsRecalculation bool
	Notices            []domain.Notice
}

// Reconcile demotes expired overrides to the original price and re-asserts
// active ones. The input slice is not modified.
func Reconcile(lines []domain.CartLine, now time.Time) Result {
	res := Result{Lines: make([]domain.CartLine, len(lines))}
	for i, l := range lines {
		if l.Override == nil {
			res.Lines[i] = l
			continue
		}
		ov := *l.Override
		if ov.Expired(now) {
			l.UnitPrice = ov.OriginalPrice
			l.Override = nil
			res.NeedsRecalculation = true
			res.Changed = append(res.Changed, i)
			res.Notices = append(res.Notices, domain.Notice{Kind: domain.NoticeInfo, Text: ExpiredNotice})
		} else {
			if !l.UnitPrice.Equal(ov.SuggestedPrice) {
				res.Changed = append(res.Changed, i)
			}
			l.UnitPrice = ov.SuggestedPrice
			l.Override = &ov
		}
		res.Lines[i] = l
	}
	return res
}
