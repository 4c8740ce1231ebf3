package registry

import "github.com/prometheus/client_golang/prometheus"

// Label constants for metrics.
const (
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelTransport = "transport"
)

// Status label values for delivery outcomes.
const (
	deliveryOutcomeOK     = "ok"
	deliveryOutcomeFailed = "failed"
)

// Metrics provides Prometheus metrics for registry operations and
// dispatcher outcomes.
type Metrics struct {
	operationsTotal  *prometheus.CounterVec
	deliveriesTotal  *prometheus.CounterVec
	namesActive      prometheus.GaugeFunc
	clientsActive    prometheus.GaugeFunc
	controlledActive prometheus.GaugeFunc

	registered bool
}

// NewMetrics creates registry metrics. If registerer is nil, metrics are
// created but not registered with any collector (useful for testing). The
// three gauge funcs read live counts from r at scrape time rather than
// being updated at every mutation site.
func NewMetrics(registerer prometheus.Registerer, r *Registry) *Metrics {
	m := &Metrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "notifyd",
				Subsystem: "registry",
				Name:      "operations_total",
				Help:      "Total number of registry facade operations by outcome",
			},
			[]string{LabelOperation, LabelStatus},
		),
		deliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "notifyd",
				Subsystem: "registry",
				Name:      "deliveries_total",
				Help:      "Total number of dispatcher delivery attempts by transport and outcome",
			},
			[]string{LabelTransport, LabelStatus},
		),
		namesActive: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "notifyd",
				Subsystem: "registry",
				Name:      "names_active",
				Help:      "Number of names currently present in the name table",
			},
			func() float64 { return float64(r.namesLen()) },
		),
		clientsActive: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "notifyd",
				Subsystem: "registry",
				Name:      "clients_active",
				Help:      "Number of subscribers currently registered",
			},
			func() float64 { return float64(r.clientsLen()) },
		),
		controlledActive: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "notifyd",
				Subsystem: "registry",
				Name:      "controlled_names",
				Help:      "Number of names in the controlled-name (ACL) list",
			},
			func() float64 { return float64(r.controlledLen()) },
		),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.operationsTotal,
			m.deliveriesTotal,
			m.namesActive,
			m.clientsActive,
			m.controlledActive,
		)
		m.registered = true
	}

	return m
}

func (m *Metrics) observeOperation(op string, status Status) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(op, status.String()).Inc()
}

func (m *Metrics) observeDelivery(nt NotifyType, ok bool) {
	if m == nil {
		return
	}
	outcome := deliveryOutcomeOK
	if !ok {
		outcome = deliveryOutcomeFailed
	}
	m.deliveriesTotal.WithLabelValues(nt.String(), outcome).Inc()
}
