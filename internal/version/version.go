package version

import (
	_ "embed"
	"strings"
)

//go:embed version.txt
var versionString string

// Version returns the version of this code.
func Version() string {
	return strings.TrimSpace(versionString)
}
