package pricing_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offerbytes/internal/domain"
	"offerbytes/internal/pricing"
)

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })

func offeredLine(t0 time.Time, suggested, original string) domain.CartLine {
	return domain.CartLine{
		ID:        gofakeit.UUID(),
		ProductID: gofakeit.UUID(),
		Qty:       1,
		UnitPrice: decimal.RequireFromString(suggested),
		Override: &domain.CartLineOverride{
			SuggestedPrice: decimal.RequireFromString(suggested),
			OriginalPrice:  decimal.RequireFromString(original),
			ExpiresAt:      t0.Add(domain.CustomPriceExpiration),
			Token:          gofakeit.UUID(),
		},
	}
}

func plainLine(price string) domain.CartLine {
	return domain.CartLine{
		ID:        gofakeit.UUID(),
		ProductID: gofakeit.UUID(),
		Qty:       2,
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestReconcile(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name        string
		now         time.Time
		lines       []domain.CartLine
		wantPrices  []string
		wantOffered []bool
		wantRecalc  bool
		wantNotices int
	}{
		{
			name:        "active override keeps suggested price",
			now:         t0.Add(30 * time.Second),
			lines:       []domain.CartLine{offeredLine(t0, "150", "200")},
			wantPrices:  []string{"150"},
			wantOffered: []bool{true},
		},
		{
			name:        "expired override reverts to original",
			now:         t0.Add(61 * time.Second),
			lines:       []domain.CartLine{offeredLine(t0, "150", "200")},
			wantPrices:  []string{"200"},
			wantOffered: []bool{false},
			wantRecalc:  true,
			wantNotices: 1,
		},
		{
			name:        "override expires at exactly expiresAt",
			now:         t0.Add(domain.CustomPriceExpiration),
			lines:       []domain.CartLine{offeredLine(t0, "150", "200")},
			wantPrices:  []string{"200"},
			wantOffered: []bool{false},
			wantRecalc:  true,
			wantNotices: 1,
		},
		{
			name:        "lines without override untouched",
			now:         t0.Add(time.Hour),
			lines:       []domain.CartLine{plainLine("19.99"), offeredLine(t0, "120", "130")},
			wantPrices:  []string{"19.99", "130"},
			wantOffered: []bool{false, false},
			wantRecalc:  true,
			wantNotices: 1,
		},
		{
			name:        "one notice per expired line",
			now:         t0.Add(2 * time.Minute),
			lines:       []domain.CartLine{offeredLine(t0, "1", "2"), offeredLine(t0, "3", "4")},
			wantPrices:  []string{"2", "4"},
			wantOffered: []bool{false, false},
			wantRecalc:  true,
			wantNotices: 2,
		},
		{
			name:       "empty cart",
			now:        t0,
			wantRecalc: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pricing.Reconcile(tt.lines, tt.now)

			require.Len(t, res.Lines, len(tt.lines))
			for i, l := range res.Lines {
				assert.True(t, decimal.RequireFromString(tt.wantPrices[i]).Equal(l.UnitPrice),
					"line %d price: got %s want %s", i, l.UnitPrice, tt.wantPrices[i])
				assert.Equal(t, tt.wantOffered[i], l.Override != nil, "line %d override", i)
			}
			assert.Equal(t, tt.wantRecalc, res.NeedsRecalculation)
			assert.Len(t, res.Notices, tt.wantNotices)
			for _, n := range res.Notices {
				assert.Equal(t, pricing.ExpiredNotice, n.Text)
			}
		})
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	in := []domain.CartLine{offeredLine(t0, "150", "200")}
	before := in[0]
	beforeOverride := *in[0].Override

	_ = pricing.Reconcile(in, t0.Add(time.Hour))

	require.NotNil(t, in[0].Override)
	assert.Empty(t, cmp.Diff(beforeOverride, *in[0].Override, decimalComparer))
	assert.True(t, before.UnitPrice.Equal(in[0].UnitPrice))
}

func TestReconcileIdempotent(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	lines := []domain.CartLine{plainLine("10"), offeredLine(t0, "150", "200"), offeredLine(t0.Add(time.Minute), "5", "9")}
	now := t0.Add(61 * time.Second)

	first := pricing.Reconcile(lines, now)
	require.True(t, first.NeedsRecalculation)

	second := pricing.Reconcile(first.Lines, now)
	assert.False(t, second.NeedsRecalculation)
	assert.Empty(t, second.Notices)
	assert.Empty(t, second.Changed)
	assert.Empty(t, cmp.Diff(first.Lines, second.Lines, decimalComparer))
}

func TestReconcileReassertsSuggestedPrice(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	l := offeredLine(t0, "150", "200")
	// a totals pass recomputed the price from the catalog
	l.UnitPrice = decimal.NewFromInt(200)

	res := pricing.Reconcile([]domain.CartLine{l}, t0.Add(10*time.Second))

	assert.True(t, decimal.NewFromInt(150).Equal(res.Lines[0].UnitPrice))
	assert.Equal(t, []int{0}, res.Changed)
	assert.False(t, res.NeedsRecalculation)
}

func TestExpirationMonotonic(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	lines := []domain.CartLine{offeredLine(t0, "150", "200")}

	res := pricing.Reconcile(lines, t0.Add(61*time.Second))
	for _, later := range []time.Duration{62, 90, 600, 86400} {
		res = pricing.Reconcile(res.Lines, t0.Add(later*time.Second))
		require.Nil(t, res.Lines[0].Override)
		assert.True(t, decimal.NewFromInt(200).Equal(res.Lines[0].UnitPrice))
		assert.False(t, res.NeedsRecalculation)
	}
}

func TestTotal(t *testing.T) {
	t0 := time.Unix(1_700_000_000, 0)
	lines := []domain.CartLine{plainLine("10.50"), offeredLine(t0, "150", "200")}

	assert.True(t, decimal.RequireFromString("171").Equal(pricing.Total(lines, t0.Add(5*time.Second))))
	assert.True(t, decimal.RequireFromString("221").Equal(pricing.Total(lines, t0.Add(5*time.Minute))))
}
