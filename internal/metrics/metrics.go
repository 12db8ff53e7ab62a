package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OffersAccepted   prometheus.Counter
	OffersRejected   prometheus.Counter
	OffersDiscarded  prometheus.Counter
	LocksArmed       *prometheus.CounterVec
	OverridesExpired prometheus.Counter
	Reconciles       prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	accepted := prometheus.NewCounter(prometheus.CounterOpts{Name: "offerbytes_offers_accepted_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "offerbytes_offers_rejected_total"})
	discarded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offerbytes_offers_discarded_total",
		Help: "Offers ignored because the actor was locked or already held an offer for the product.",
	})
	locks := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "offerbytes_price_locks_armed_total"}, []string{"reason"})
	expired := prometheus.NewCounter(prometheus.CounterOpts{Name: "offerbytes_overrides_expired_total"})
	reconciles := prometheus.NewCounter(prometheus.CounterOpts{Name: "offerbytes_cart_reconciles_total"})

	r.MustRegister(accepted, rejected, discarded, locks, expired, reconciles)
	return &Registry{
		reg:              r,
		OffersAccepted:   accepted,
		OffersRejected:   rejected,
		OffersDiscarded:  discarded,
		LocksArmed:       locks,
		OverridesExpired: expired,
		Reconciles:       reconciles,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// The helpers below tolerate a nil *Registry so services can run without metrics.

func (r *Registry) OfferAccepted() {
	if r != nil {
		r.OffersAccepted.Inc()
	}
}

func (r *Registry) OfferRejected() {
	if r != nil {
		r.OffersRejected.Inc()
	}
}

func (r *Registry) OfferDiscarded() {
	if r != nil {
		r.OffersDiscarded.Inc()
	}
}

func (r *Registry) LockArmed(reason string) {
	if r != nil {
		r.LocksArmed.WithLabelValues(reason).Inc()
	}
}

func (r *Registry) Reconciled(expired int) {
	if r == nil {
		return
	}
	r.Reconciles.Inc()
	if expired > 0 {
		r.OverridesExpired.Add(float64(expired))
	}
}
