package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inbox groups the collectors recorded by the inbox service.
type Inbox struct {
	Fetches          *prometheus.CounterVec
	Replies          *prometheus.CounterVec
	PartialWrites    prometheus.Counter
	ReadMarkFailures prometheus.Counter
	Reconciled       prometheus.Counter
	DraftDuration    *prometheus.HistogramVec
}

// NewInbox creates the collectors and registers them on reg. A nil reg
// leaves them unregistered, which is what tests want.
func NewInbox(reg prometheus.Registerer) *Inbox {
	m := &Inbox{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inbox",
			Name:      "fetches_total",
			Help:      "Message list requests by outcome.",
		}, []string{"outcome"}),
		Replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inbox",
			Name:      "replies_total",
			Help:      "Submitted replies by origin and outcome.",
		}, []string{"origin", "outcome"}),
		PartialWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inbox",
			Name:      "reply_partial_writes_total",
			Help:      "Replies stored without the parent message being marked replied.",
		}),
		ReadMarkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inbox",
			Name:      "read_mark_failures_total",
			Help:      "Best-effort read-state updates that failed.",
		}),
		Reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inbox",
			Name:      "reconciled_messages_total",
			Help:      "Messages repaired by the replied-state sweep.",
		}),
		DraftDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inbox",
			Name:      "draft_duration_seconds",
			Help:      "Reply draft generation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.Fetches, m.Replies, m.PartialWrites, m.ReadMarkFailures, m.Reconciled, m.DraftDuration)
	}
	return m
}

// Handler returns an http.Handler for Prometheus scraping of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func Origin(sentByAI bool) string {
	if sentByAI {
		return "ai"
	}
	return "manual"
}
