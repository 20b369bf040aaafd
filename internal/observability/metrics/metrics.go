package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters for the dialogue and reminder flows.
type BotMetrics struct {
	inboundTotal   *prometheus.CounterVec
	outboundTotal  *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	remindersTotal *prometheus.CounterVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "controlebot",
			Subsystem: "dialogue",
			Name:      "inbound_messages_total",
			Help:      "Total inbound messages by dialogue outcome",
		}, []string{"outcome"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "controlebot",
			Subsystem: "channel",
			Name:      "outbound_sends_total",
			Help:      "Total outbound channel sends",
		}, []string{"status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "controlebot",
			Subsystem: "dialogue",
			Name:      "bookings_confirmed_total",
			Help:      "Total confirmed bookings by flow",
		}, []string{"flow"}),
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "controlebot",
			Subsystem: "reminder",
			Name:      "reminders_total",
			Help:      "Total reminder dispatch attempts",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.outboundTotal, m.bookingsTotal, m.remindersTotal)
	return m
}

func (m *BotMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *BotMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveBooking(flow string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(flow).Inc()
}

func (m *BotMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.remindersTotal.WithLabelValues(status).Inc()
}
