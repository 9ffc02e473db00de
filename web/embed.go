package web

import "embed"

// Templates embeds the HTML templates for the web UI.
//
//go:embed templates/*.html
var Templates embed.FS
