package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/practice-voice-ai/internal/assistant"
)

// VoiceMetrics exposes counters/histograms for voice command processing.
type VoiceMetrics struct {
	commandsTotal     *prometheus.CounterVec
	commandDuration   *prometheus.HistogramVec
	directoryFailures *prometheus.CounterVec
	activeCalls       prometheus.Gauge
}

var _ assistant.Metrics = (*VoiceMetrics)(nil)

func NewVoiceMetrics(reg prometheus.Registerer) *VoiceMetrics {
	m := &VoiceMetrics{
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceai",
			Name:      "commands_total",
			Help:      "Total processed voice commands",
		}, []string{"intent", "success"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voiceai",
			Name:      "command_duration_seconds",
			Help:      "Latency of voice command processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		directoryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voiceai",
			Name:      "directory_failures_total",
			Help:      "Total failed calls to the practice directory",
		}, []string{"operation"}),
		activeCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voiceai",
			Name:      "active_calls",
			Help:      "Calls currently in progress",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.commandsTotal, m.commandDuration, m.directoryFailures, m.activeCalls)
	return m
}

// ObserveCommand records one processed command and its latency.
func (m *VoiceMetrics) ObserveCommand(intent string, success bool, seconds float64) {
	if m == nil {
		return
	}
	label := "false"
	if success {
		label = "true"
	}
	m.commandsTotal.WithLabelValues(intent, label).Inc()
	m.commandDuration.WithLabelValues(intent).Observe(seconds)
}

// DirectoryFailure counts one failed directory operation.
func (m *VoiceMetrics) DirectoryFailure(operation string) {
	if m == nil {
		return
	}
	m.directoryFailures.WithLabelValues(operation).Inc()
}

// CallStarted marks one more call in progress.
func (m *VoiceMetrics) CallStarted() {
	if m == nil {
		return
	}
	m.activeCalls.Inc()
}

// CallEnded marks one call finished.
func (m *VoiceMetrics) CallEnded() {
	if m == nil {
		return
	}
	m.activeCalls.Dec()
}
