// Package harness runs end-to-end scenarios against the sieve CLI.
//
// A scenario writes its input files into a working directory, runs a list
// of CLI invocations against a fresh session database, and then checks the
// final session: its history, its current records and any files written.
//
// # Scenario Format
//
//	name: narrow_and_undo
//	description: "Filter, then fail to undo the load"
//	session_ids: [s-1]
//	files:
//	  people.csv: |
//	    name,age
//	    Alice,30
//	steps:
//	  - run: [open, people.csv]
//	  - run: [filter, age, greater_than, "26", --commit]
//	    expect:
//	      stdout_contains: ["Committed #2"]
//	  - run: [undo, "1"]
//	    expect:
//	      exit: 1
//	assertions:
//	  - type: history_order
//	    actions: ["load people.csv", "filter age greater_than 26"]
//	  - type: records
//	    field: name
//	    values: [Alice]
//
// # Assertion Types
//
//   - history_contains: an action line appears in the current session's history
//   - history_order: action lines appear in the given order
//   - history_count: the history holds exactly count actions
//   - records: the current records carry the given values of field, in order
//   - file_records: the file at path loads with the given values of field
//
// # Deterministic Output
//
// Session ids come from a fixed generator (session_ids, default
// "session-1", "session-2", ...) so that the stdout transcript of a run can
// be compared against a golden file with RunWithGolden.
package harness
