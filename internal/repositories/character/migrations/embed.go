// Package migrations holds the SQLite schema for the character store
package migrations

import "embed"

// FS contains the embedded character store migrations
//
//go:embed *.sql
var FS embed.FS
