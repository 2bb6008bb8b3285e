// Package services implements the business logic layer between the HTTP
// handlers and the processing and storage packages.
//
// Services follow these architectural principles:
//
//	1. Context propagation for cancellation and tracing
//	2. Dependency injection for loose coupling
//	3. Domain-focused methods that encapsulate business rules
//
// DonorService owns the ingestion pipeline (decode, normalize, aggregate,
// merge, persist) and serializes uploads so concurrent requests cannot
// interleave merges. AnalysisService computes analytics snapshots from the
// stored donor set. HealthService reports liveness and readiness.
package services
