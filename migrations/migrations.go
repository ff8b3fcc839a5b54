// Package migrations embeds the versioned schema files so the binary can
// migrate without carrying loose .sql files next to the executable.
package migrations

import "embed"

//go:embed V*.sql
var FS embed.FS
