package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load results
const (
	LoadHit    = "hit"
	LoadOpened = "opened"
	LoadFailed = "failed"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	// Catalog metrics
	CatalogDescriptors prometheus.Gauge
	CatalogDuplicates  prometheus.Counter

	// Loader metrics
	PackageLoads     *prometheus.CounterVec
	PackageUnloads   prometheus.Counter
	PackagesResident prometheus.Gauge
	PoolAllocations  prometheus.Counter

	// Update metrics
	UpdateRuns    *prometheus.CounterVec
	StalePackages prometheus.Gauge

	// Remote metrics
	RemoteDuration *prometheus.HistogramVec
	RemoteErrors   *prometheus.CounterVec
}

// NewMetrics creates a metrics collector registered against reg.
// A nil reg registers with the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CatalogDescriptors: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assetpack_catalog_descriptors",
				Help: "Number of descriptors in the loaded catalog",
			},
		),
		CatalogDuplicates: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assetpack_catalog_duplicates_total",
				Help: "Catalog entries dropped because their content hash was already present",
			},
		),

		PackageLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetpack_package_loads_total",
				Help: "Package load requests by result",
			},
			[]string{"result"},
		),
		PackageUnloads: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assetpack_package_unloads_total",
				Help: "Packages unloaded after their reference count reached zero",
			},
		),
		PackagesResident: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assetpack_packages_resident",
				Help: "Packages currently held in the registry",
			},
		),
		PoolAllocations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assetpack_pool_allocations_total",
				Help: "Handles allocated because the pool was empty",
			},
		),

		UpdateRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetpack_update_runs_total",
				Help: "Update orchestrator runs by outcome",
			},
			[]string{"outcome"},
		),
		StalePackages: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assetpack_update_stale_packages",
				Help: "Packages found stale by the last content comparison",
			},
		),

		RemoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assetpack_remote_fetch_duration_seconds",
				Help:    "Remote fetch duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"resource"},
		),
		RemoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assetpack_remote_fetch_errors_total",
				Help: "Remote fetch failures",
			},
			[]string{"resource"},
		),
	}
}

// SetCatalog records the size of a freshly loaded catalog
func (m *Metrics) SetCatalog(descriptors, duplicates int) {
	if m == nil {
		return
	}
	m.CatalogDescriptors.Set(float64(descriptors))
	m.CatalogDuplicates.Add(float64(duplicates))
}

// RecordLoad records a load request and the resulting resident count
func (m *Metrics) RecordLoad(result string, resident int) {
	if m == nil {
		return
	}
	m.PackageLoads.WithLabelValues(result).Inc()
	m.PackagesResident.Set(float64(resident))
}

// RecordUnload records an unload and the resulting resident count
func (m *Metrics) RecordUnload(resident int) {
	if m == nil {
		return
	}
	m.PackageUnloads.Inc()
	m.PackagesResident.Set(float64(resident))
}

// IncPoolAllocations counts a fresh handle allocation
func (m *Metrics) IncPoolAllocations() {
	if m == nil {
		return
	}
	m.PoolAllocations.Inc()
}

// RecordUpdateRun records an orchestrator outcome
func (m *Metrics) RecordUpdateRun(outcome string, stale int) {
	if m == nil {
		return
	}
	m.UpdateRuns.WithLabelValues(outcome).Inc()
	m.StalePackages.Set(float64(stale))
}

// RecordRemote records a remote fetch
func (m *Metrics) RecordRemote(resource string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.RemoteDuration.WithLabelValues(resource).Observe(duration.Seconds())
	if err != nil {
		m.RemoteErrors.WithLabelValues(resource).Inc()
	}
}
