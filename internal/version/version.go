// Package version exposes build metadata injected at link time:
//
//	go build -ldflags "-X .../internal/version.Commit=$(git rev-parse HEAD) ..."
package version

import "fmt"

const Service = "ephemerisd"

// Set via -ldflags at build time; defaults identify a dev build.
var (
	Commit    = "unknown"
	Tag       = "dev"
	BuildTime = "unknown"
	RepoURL   = "https://github.com/astraline/ephemerisd"
)

// SourceHeader is the X-Source response header value: <repo>@<tag-or-commit>.
func SourceHeader() string {
	v := Tag
	if v == "dev" {
		v = Commit
	}
	return fmt.Sprintf("%s@%s", RepoURL, v)
}
