package services

import "github.com/prometheus/client_golang/prometheus"

// mutations counts successful writes per resource and operation
// (create, update, delete, status, convert).
var mutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "erp_resource_mutations_total",
		Help: "Successful resource writes by resource and operation.",
	},
	[]string{"resource", "op"},
)

func init() {
	prometheus.MustRegister(mutations)
}

func countMutation(resource, op string) {
	mutations.WithLabelValues(resource, op).Inc()
}
