// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

func staticAssets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
