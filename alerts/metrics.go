package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AlertStuckConfirmation = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bridge",
		Subsystem: "alerts",
		Name:      "stuck_confirmation",
		Help:      "Shows messages on the side ledger that are still waiting for enough authority confirmations.",
	}, []string{"message_id", "sender", "recipient", "count"})
	AlertStuckSignature = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bridge",
		Subsystem: "alerts",
		Name:      "stuck_signature",
		Help:      "Shows messages on the side ledger that are still waiting for enough authority signatures.",
	}, []string{"msg_hash", "count"})
)
