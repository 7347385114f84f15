// Package query turns loosely-typed HTTP query parameters into validated,
// strongly-typed query descriptors: a normalized pagination window, a
// whitelist-checked sort order, a composable task filter, and a safe field
// projection. Malformed pagination, sort and filter inputs silently fall
// back to documented defaults; they never surface as errors. Raw input is
// never passed into query construction.
package query
