package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ContractMetrics содержит все метрики жизненного цикла контрактов и эскроу
type ContractMetrics struct {
	// Контракты
	ContractsCreatedTotal       *prometheus.CounterVec
	ContractsCreatedAmountTotal *prometheus.CounterVec
	ContractTransitionsTotal    *prometheus.CounterVec
	ContractCompletionDuration  prometheus.Histogram

	// Эскроу
	EscrowDepositsTotal        *prometheus.CounterVec
	EscrowConfirmedAmountTotal *prometheus.CounterVec
	EscrowRefundedAmountTotal  *prometheus.CounterVec

	// Выплаты по вехам
	MilestonesReleasedTotal       *prometheus.CounterVec
	MilestonesReleasedAmountTotal *prometheus.CounterVec

	// Диспуты
	DisputesOpenedTotal   *prometheus.CounterVec
	DisputesResolvedTotal *prometheus.CounterVec

	// Платежный шлюз
	WebhookEventsTotal *prometheus.CounterVec
	WithdrawalsTotal   *prometheus.CounterVec

	HTTPRequestDuration *prometheus.HistogramVec

	// Ошибки
	OperationErrorsTotal *prometheus.CounterVec
}

// NewContractMetrics регистрирует метрики в reg
func NewContractMetrics(reg prometheus.Registerer) *ContractMetrics {
	factory := promauto.With(reg)

	return &ContractMetrics{
		ContractsCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contracts_created_total",
				Help: "Total number of created contracts",
			},
			[]string{"currency"},
		),
		ContractsCreatedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contracts_created_amount_minor_total",
				Help: "Sum of agreed bids of created contracts in minor units",
			},
			[]string{"currency"},
		),
		ContractTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contract_status_transitions_total",
				Help: "Contract status transitions",
			},
			[]string{"from", "to"},
		),
		ContractCompletionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "contract_completion_duration_hours",
				Help:    "Time from contract creation to completion in hours",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1h .. ~85 days
			},
		),
		EscrowDepositsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_deposits_total",
				Help: "Escrow deposits by result",
			},
			[]string{"result"},
		),
		EscrowConfirmedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_confirmed_amount_minor_total",
				Help: "Confirmed escrow deposits in minor units",
			},
			[]string{"currency"},
		),
		EscrowRefundedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_refunded_amount_minor_total",
				Help: "Escrow refunded to clients in minor units",
			},
			[]string{"currency"},
		),
		MilestonesReleasedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "milestones_released_total",
				Help: "Released milestones",
			},
			[]string{"currency"},
		),
		MilestonesReleasedAmountTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "milestones_released_amount_minor_total",
				Help: "Released milestone amounts in minor units",
			},
			[]string{"currency"},
		),
		DisputesOpenedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_opened_total",
				Help: "Opened disputes by reason",
			},
			[]string{"reason"},
		),
		DisputesResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "disputes_resolved_total",
				Help: "Resolved disputes by resolution",
			},
			[]string{"resolution"},
		),
		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_events_total",
				Help: "Payment gateway events by type and handling result",
			},
			[]string{"event", "result"},
		),
		WithdrawalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_withdrawals_total",
				Help: "Withdrawals by result",
			},
			[]string{"result"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path", "status"},
		),
		OperationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contract_operation_errors_total",
				Help: "Failed operations by name",
			},
			[]string{"operation"},
		),
	}
}

func (m *ContractMetrics) RecordContractCreated(currency string, amount int64) {
	m.ContractsCreatedTotal.WithLabelValues(currency).Inc()
	m.ContractsCreatedAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *ContractMetrics) RecordTransition(from, to string) {
	m.ContractTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *ContractMetrics) RecordCompletion(createdAt, completedAt time.Time) {
	if createdAt.IsZero() || completedAt.Before(createdAt) {
		return
	}
	m.ContractCompletionDuration.Observe(completedAt.Sub(createdAt).Hours())
}

func (m *ContractMetrics) RecordDeposit(result string) {
	m.EscrowDepositsTotal.WithLabelValues(result).Inc()
}

func (m *ContractMetrics) RecordEscrowConfirmed(currency string, amount int64) {
	m.EscrowConfirmedAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *ContractMetrics) RecordEscrowRefunded(currency string, amount int64) {
	m.EscrowRefundedAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *ContractMetrics) RecordMilestoneReleased(currency string, amount int64) {
	m.MilestonesReleasedTotal.WithLabelValues(currency).Inc()
	m.MilestonesReleasedAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *ContractMetrics) RecordDisputeOpened(reason string) {
	m.DisputesOpenedTotal.WithLabelValues(reason).Inc()
}

func (m *ContractMetrics) RecordDisputeResolved(resolution string) {
	m.DisputesResolvedTotal.WithLabelValues(resolution).Inc()
}

func (m *ContractMetrics) RecordGatewayEvent(event, result string) {
	m.WebhookEventsTotal.WithLabelValues(event, result).Inc()
}

func (m *ContractMetrics) RecordWithdrawal(result string) {
	m.WithdrawalsTotal.WithLabelValues(result).Inc()
}

func (m *ContractMetrics) RecordHTTPRequest(method, path, status string, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func (m *ContractMetrics) RecordError(operation string) {
	m.OperationErrorsTotal.WithLabelValues(operation).Inc()
}
