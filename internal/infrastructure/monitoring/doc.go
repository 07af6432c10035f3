/*
Package monitoring provides Prometheus metrics for the asset runtime.

# Overview

Metrics are registered against an injected prometheus.Registerer so tests
and embedding applications can keep them isolated. Every record method
accepts a nil receiver, which lets the loader and orchestrator run without
metrics wired.

# Metrics

- assetpack_catalog_descriptors, assetpack_catalog_duplicates_total
- assetpack_package_loads_total{result=hit|opened|failed}
- assetpack_package_unloads_total, assetpack_packages_resident
- assetpack_pool_allocations_total
- assetpack_update_runs_total{outcome}, assetpack_update_stale_packages
- assetpack_remote_fetch_duration_seconds{resource}, assetpack_remote_fetch_errors_total{resource}

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	metrics.RecordLoad(monitoring.LoadOpened, 3)
*/
package monitoring
