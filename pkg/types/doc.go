// Package types defines the Compilation and Item entities, the tagged-union
// content codec shared by every process that reads the store, the Storage
// interface, and the standard error values.
package types
