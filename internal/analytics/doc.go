// Package analytics computes read-only views over a donor set: monthly
// giving trends, month-over-month retention, an OLS revenue forecast,
// and an economic-factor adjustment layer on top of that forecast.
//
// Every function here is pure: inputs are never mutated and results are
// recreated on each call. Degenerate inputs (no donations, fewer than
// three months of history, empty indicator series, zero denominators)
// produce defined zero or neutral results rather than errors.
package analytics
