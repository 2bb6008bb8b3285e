// Package dataprocessing turns heterogeneous tabular donation exports
// into canonical donor aggregates.
//
// The pipeline is a chain of pure steps:
//
//	raw rows -> MapFields -> NormalizeRow -> AggregateDonors
//
// MapFields resolves arbitrary column headers (any casing or spacing)
// to canonical field names using alias dictionaries. NormalizeRow
// produces a validated Donation or rejects the row; rejections are
// filtered silently, never raised as errors. AggregateDonors groups the
// surviving donations by donor identity key and computes each donor's
// derived metrics.
//
// Container decoding (CSV and Excel) lives in parser.go. An
// unrecognized container format is the only fatal ingestion error;
// per-row problems only shrink the output set.
package dataprocessing
