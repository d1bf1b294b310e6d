// Package frame provides a labeled two-dimensional table: unique row labels ×
// unique column labels over a *matrix.Dense.
//
// A Frame is immutable. Every operation (row selection, re-labelling,
// data replacement) returns a new Frame; the receiver and its backing matrix
// are never written to.
//
// The codec reads and writes the tab-delimited layout used for expression
// tables: a header line whose first cell names the index column, then one
// line per row starting with the row label. Gzip input is detected from its
// magic bytes; files ending in ".gz" are written compressed. Empty cells and
// "NaN" decode to NaN.
package frame
