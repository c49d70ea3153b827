package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "little_brother"

// RuleMetrics holds every metric of the master process.
type RuleMetrics struct {
	ConfiguredUsers  prometheus.Gauge
	MonitoredUsers   prometheus.Gauge
	ActiveUsers      *prometheus.GaugeVec
	MonitoredHosts   *prometheus.GaugeVec
	MonitoredDevices prometheus.Gauge

	ForcedLogoutsTotal  *prometheus.CounterVec
	LogoutWarningsTotal *prometheus.CounterVec
	DeniedRulesTotal    *prometheus.CounterVec

	RuleEvaluationDuration prometheus.Histogram
	HTTPRequestDuration    *prometheus.SummaryVec

	ClientUptime              *prometheus.GaugeVec
	ClientResidentMemoryBytes *prometheus.GaugeVec
	ClientCPUSecondsTotal     *prometheus.GaugeVec
}

// NewRuleMetrics registers the metrics with reg. Tests pass a private
// registry; the daemon passes prometheus.DefaultRegisterer.
func NewRuleMetrics(reg prometheus.Registerer) *RuleMetrics {
	factory := promauto.With(reg)

	return &RuleMetrics{
		ConfiguredUsers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "configured_users",
			Help:      "Number of configured users",
		}),
		MonitoredUsers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitored_users",
			Help:      "Number of active monitored users",
		}),
		ActiveUsers: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_users",
			Help:      "1 while the user has an ongoing activity",
		}, []string{"username"}),
		MonitoredHosts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitored_hosts",
			Help:      "1 while the host reports to the master",
		}, []string{"hostname"}),
		MonitoredDevices: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "monitored_devices",
			Help:      "Number of configured devices",
		}),

		ForcedLogoutsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "forced_logouts_total",
			Help:      "Number of forced logouts",
		}, []string{"username"}),
		LogoutWarningsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logout_warnings_total",
			Help:      "Number of approaching logout warnings",
		}, []string{"username"}),
		DeniedRulesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "denied_rules_total",
			Help:      "Rule evaluations denying activity, by rule",
		}, []string{"rule"}),

		RuleEvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rule_evaluation_duration_seconds",
			Help:      "Time spent evaluating the rules of one user",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		HTTPRequestDuration: factory.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "http_requests",
			Help:      "Duration of API requests",
		}, []string{"route", "status"}),

		ClientUptime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "client_uptime_seconds",
			Help:      "Uptime of a client process",
		}, []string{"hostname"}),
		ClientResidentMemoryBytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "client_resident_memory_bytes",
			Help:      "Resident memory of a client process",
		}, []string{"hostname"}),
		ClientCPUSecondsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "client_cpu_seconds_total",
			Help:      "CPU time used by a client process",
		}, []string{"hostname"}),
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (m *RuleMetrics) SetUserActive(username string, active bool) {
	m.ActiveUsers.WithLabelValues(username).Set(boolToFloat(active))
}

func (m *RuleMetrics) SetHostMonitored(hostname string, active bool) {
	m.MonitoredHosts.WithLabelValues(hostname).Set(boolToFloat(active))
}

func (m *RuleMetrics) SetUserCounts(configured, monitored int) {
	m.ConfiguredUsers.Set(float64(configured))
	m.MonitoredUsers.Set(float64(monitored))
}

func (m *RuleMetrics) SetDeviceCount(count int) {
	m.MonitoredDevices.Set(float64(count))
}

func (m *RuleMetrics) RecordForcedLogout(username string) {
	m.ForcedLogoutsTotal.WithLabelValues(username).Inc()
}

func (m *RuleMetrics) RecordLogoutWarning(username string) {
	m.LogoutWarningsTotal.WithLabelValues(username).Inc()
}

// RecordDenied counts one evaluation per denying rule name.
func (m *RuleMetrics) RecordDenied(ruleNames []string) {
	for _, name := range ruleNames {
		m.DeniedRulesTotal.WithLabelValues(name).Inc()
	}
}

func (m *RuleMetrics) RecordEvaluation(d time.Duration) {
	m.RuleEvaluationDuration.Observe(d.Seconds())
}

func (m *RuleMetrics) RecordHTTPRequest(route, status string, d time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(route, status).Observe(d.Seconds())
}

func (m *RuleMetrics) SetClientStats(hostname string, uptime time.Duration, residentMemoryBytes, cpuSecondsTotal float64) {
	m.ClientUptime.WithLabelValues(hostname).Set(uptime.Seconds())
	m.ClientResidentMemoryBytes.WithLabelValues(hostname).Set(residentMemoryBytes)
	m.ClientCPUSecondsTotal.WithLabelValues(hostname).Set(cpuSecondsTotal)
}
