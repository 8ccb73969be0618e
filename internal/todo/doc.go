// Package todo owns the task list and its CSV representation.
//
// The task file (tasks.csv) is a header row followed by one row per task:
//
//	description,priority
//	Buy milk,Low
//	File taxes,High
//
// # Store
//
// A Store holds tasks in insertion order and writes the whole file after
// every mutation. A missing file loads as an empty store. A file that is not
// valid CSV, or whose header lacks the description or priority column, fails
// to load with a *ParseError.
//
// The store does not validate what it is given. Rows with a missing priority
// or a blank description are kept as-is; ValidateInput is the gate callers use
// before Add.
//
// # Priority Values
//
//   - "Low"
//   - "Medium"
//   - "High"
//
// ParsePriority accepts any casing and returns the capitalized form.
//
// # Import and Export
//
// Import reads a JSON task list and validates it against an embedded JSON
// Schema (draft 2020-12). Export writes tasks as csv, json, yaml or pdf.
package todo
