// Package appfs embeds the static files the backend needs at runtime.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS
