// Package filter evaluates conditions over datasets.
//
// A Condition is one of a closed set of predicate families (equals,
// starts_with, average_greater, ...). The Evaluator maps each one to a
// Predicate and returns the subsequence of records that satisfy it, never
// modifying its input.
//
// Failure conditions are returned, not guarded: an average over an empty
// sequence is ErrEmptySequence, an ordering comparison against a missing
// field or a value of another kind is value.ErrIncomparable, and a text
// condition on a non-text value is ErrKindMismatch. These abort the current
// filter only.
package filter
