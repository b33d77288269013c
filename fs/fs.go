package appfs

import "embed"

// FS embeds non-Go app files (DB migrations).
//go:embed migrations
var FS embed.FS
