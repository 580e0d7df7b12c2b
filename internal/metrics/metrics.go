package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records room and round lifecycle events.
type Collector struct {
	roomsActive   prometheus.Gauge
	roomsCreated  prometheus.Counter
	roundsStarted prometheus.Counter
	roundsEnded   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		roomsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "guessit",
			Name:      "rooms_active",
			Help:      "Rooms currently registered.",
		}),
		roomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guessit",
			Name:      "rooms_created_total",
			Help:      "Rooms created since start.",
		}),
		roundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guessit",
			Name:      "rounds_started_total",
			Help:      "Rounds started since start.",
		}),
		roundsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guessit",
			Name:      "rounds_ended_total",
			Help:      "Rounds ended, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(c.roomsActive, c.roomsCreated, c.roundsStarted, c.roundsEnded)
	return c
}

func (c *Collector) RoomCreated() {
	c.roomsCreated.Inc()
	c.roomsActive.Inc()
}

func (c *Collector) RoomDestroyed() {
	c.roomsActive.Dec()
}

func (c *Collector) RoundStarted() {
	c.roundsStarted.Inc()
}

func (c *Collector) RoundEnded(reason string) {
	c.roundsEnded.WithLabelValues(reason).Inc()
}

// Handler exposes everything gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
