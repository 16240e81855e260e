// Package web carries the static frontend pages, compiled into the
// binary so the server ships as a single file.
package web

import "embed"

//go:embed *.html
var Files embed.FS
