package appfs

import "embed"

// FS carries the SQL migrations so deployed binaries are self-contained.
//go:embed migrations
var FS embed.FS
