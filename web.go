// Package liftlog embeds the built frontend for serving from the binary.
package liftlog

import "embed"

//go:embed web/dist
var WebFS embed.FS
