// Package database owns the embedded SQLite store: opening the single handle,
// creating the schema, seeding, and the execute/query primitives every
// repository goes through.
package database
