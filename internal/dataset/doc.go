// Package dataset defines Record and Dataset, the in-memory form of a loaded
// file, and the per-field classification shared by the evaluators.
//
// Records keep field order. Datasets are never modified in place by this
// module's evaluators: filter, sort and reset always produce a new slice and
// the session decides whether to commit it.
package dataset
