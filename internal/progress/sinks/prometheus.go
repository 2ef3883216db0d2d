package sinks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/oja-awards-crawler/internal/progress"
)

// PrometheusSink exports run progress via Prometheus collectors.
type PrometheusSink struct {
	fetchFailures *prometheus.CounterVec
	listingFails  *prometheus.CounterVec
	entries       *prometheus.CounterVec
	yearEntries   *prometheus.GaugeVec
	uploads       prometheus.Counter
	uploadBytes   prometheus.Counter
	lastRunDone   prometheus.Gauge
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oja_fetch_failures_total",
			Help: "Page fetches that failed, partitioned by year.",
		}, []string{"year"}),
		listingFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oja_listing_failures_total",
			Help: "Years whose winners page could not be loaded.",
		}, []string{"year"}),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oja_entries_total",
			Help: "Entry pages processed, partitioned by year and outcome.",
		}, []string{"year", "outcome"}),
		yearEntries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "oja_year_entries",
			Help: "Slots in the most recent result set per year, failed entries included.",
		}, []string{"year"}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oja_uploads_total",
			Help: "Year result sets uploaded to storage.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oja_upload_bytes_total",
			Help: "Bytes of JSON uploaded to storage.",
		}),
		lastRunDone: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oja_last_run_completed_timestamp_seconds",
			Help: "Unix time the last run finished crawling.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.fetchFailures,
		s.listingFails,
		s.entries,
		s.yearEntries,
		s.uploads,
		s.uploadBytes,
		s.lastRunDone,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume updates collectors from the batch.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		year := strconv.Itoa(evt.Year)
		switch evt.Stage {
		case progress.StageFetchFailed:
			s.fetchFailures.WithLabelValues(year).Inc()
		case progress.StageListingFailed:
			s.listingFails.WithLabelValues(year).Inc()
		case progress.StageEntryParsed:
			s.entries.WithLabelValues(year, "parsed").Inc()
		case progress.StageParseFailed:
			s.entries.WithLabelValues(year, "failed").Inc()
		case progress.StageYearCrawled:
			s.yearEntries.WithLabelValues(year).Set(float64(evt.Count))
		case progress.StageUploaded:
			s.uploads.Inc()
			s.uploadBytes.Add(float64(evt.Bytes))
		case progress.StageRunDone:
			s.lastRunDone.Set(float64(evt.TS.Unix()))
		}
	}
	return nil
}

// Close implements progress.Sink.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
