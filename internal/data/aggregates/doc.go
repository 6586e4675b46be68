// Package aggregates owns the write-transaction boundary for the assignment and content aggregates.
package aggregates
