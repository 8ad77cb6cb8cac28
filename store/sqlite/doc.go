// Package sqlite stores the checkpoint in a SQLite database file.
package sqlite
