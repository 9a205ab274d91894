// Package web holds the static pages served at the site root.
package web

import "embed"

//go:embed pages/*.html
var Pages embed.FS
