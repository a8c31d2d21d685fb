// Package value provides the tagged value variant held by every record field.
//
// A field value is exactly one of Null, String, Int, Float, Bool or Seq (an
// ordered sequence of Int/Float). Values are tagged when a file is decoded and
// never re-inferred afterwards; Normalize turns boolean-looking and
// list-looking strings into Bool and Seq once, at load time.
//
// This package imports nothing internal. Every other internal package builds
// on it.
package value
