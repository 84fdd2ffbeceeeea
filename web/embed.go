// Package web embeds the built dashboard static assets for single-binary distribution.
package web

import "embed"

// Assets contains the dashboard production build output.
// The static/ directory holds the prebuilt frontend bundle.
//
//go:embed all:static
var Assets embed.FS
