// Package version reports the streamkit build that is running.
//
// Release builds stamp the version through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/streamkit/version.Version=1.2.0"
//
// Unstamped builds fall back to the VCS settings recorded by the Go toolchain.
package version
