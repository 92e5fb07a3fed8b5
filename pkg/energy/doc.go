// Package energy builds Sankey charts of household energy distribution.
//
// A [Summary] holds one period's metered totals: grid import and export,
// solar production, battery charge and discharge, and individually metered
// devices placed in areas and floors. [Build] turns it into a [chart.Chart]
// with the sources on the left, the home in the middle and the consumers
// on the right:
//
//	grid ──┐            ┌── floor ── area ── device
//	solar ─┼── home ────┼── device ── child device
//	battery┘            └── untracked
//
// How much of each source went where is worked out by [ComputeConsumption]
// unless the summary states it explicitly.
//
// Summaries are usually written as TOML and read with [LoadFile] or
// [Parse].
package energy
