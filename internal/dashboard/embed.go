package dashboard

import "embed"

// assets holds the dashboard page template and static files, embedded
// at compile time so the binary is self-contained.
//
//go:embed templates static
var assets embed.FS
