package metrics

import "github.com/prometheus/client_golang/prometheus"

var SourcePollsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tspipe_source_polls_total",
		Help: "number of polls issued to external data sources",
	}, []string{
		"source", // source kind: csv, jsonl, slice, channel, ...
	})

var SourceErrorsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tspipe_source_errors_total",
		Help: "number of source polls that failed with a read or conversion error",
	}, []string{
		"source", // source kind: csv, jsonl, slice, channel, ...
	})

var StageRefillsMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tspipe_stage_refills_total",
		Help: "number of look-ahead buffer refills per operator",
	}, []string{
		"operator", // operator kind: sma, ema, fwma, ...
	})

var ValuesProcessedMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tspipe_values_processed_total",
		Help: "number of values fed through each operator",
	}, []string{
		"operator", // operator kind: sma, ema, fwma, ...
	})

var ValuesUnavailableMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tspipe_values_unavailable_total",
		Help: "number of warm-up markers emitted by each operator",
	}, []string{
		"operator", // operator kind: sma, ema, fwma, ...
	})

func init() {
	prometheus.MustRegister(
		SourcePollsMetrics,
		SourceErrorsMetrics,
		StageRefillsMetrics,
		ValuesProcessedMetrics,
		ValuesUnavailableMetrics,
	)
}
