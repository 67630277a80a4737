package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

func newAccountOperations() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_operations_total",
			Help: "Account operations by name and outcome",
		},
		[]string{"operation", "outcome"},
	)
}

// AccountOperation counts one finished account operation.
func (m *Metrics) AccountOperation(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}

	m.accountOperations.WithLabelValues(operation, outcome).Inc()
}
