package web

import (
	"embed"
	"io/fs"
)

// FS contains the embedded static assets and the profile content.
//
//go:embed static content
var FS embed.FS

// Static returns the static asset tree rooted at web/static.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Content returns the content tree rooted at web/content.
func Content() fs.FS {
	sub, err := fs.Sub(FS, "content")
	if err != nil {
		panic(err)
	}
	return sub
}

// ProfileFile is the profile document inside Content.
const ProfileFile = "profile.yaml"
