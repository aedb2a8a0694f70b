package version

import (
	"fmt"
	"strings"
	"sync"
)

// buildCharacters lists the characters allowed in appBuild.
const buildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

const (
	appMajor uint = 0
	appMinor uint = 3
	appPatch uint = 0
)

// appBuild can be set at link time with
// '-ldflags "-X github.com/kaspanet/chaind/version.appBuild=foo"'.
// Builds containing characters outside buildCharacters are ignored.
var appBuild string

var (
	version     string
	versionOnce sync.Once
)

// Version returns the application version as a semver string,
// e.g. 0.3.0 or 0.3.0-rc1.
func Version() string {
	versionOnce.Do(func() {
		version = fmt.Sprintf("%d.%d.%d", appMajor, appMinor, appPatch)
		if isValidBuild(appBuild) {
			version = fmt.Sprintf("%s-%s", version, appBuild)
		}
	})
	return version
}

func isValidBuild(build string) bool {
	if build == "" {
		return false
	}
	for _, r := range build {
		if !strings.ContainsRune(buildCharacters, r) {
			return false
		}
	}
	return true
}
