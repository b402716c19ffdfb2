// Package version reports the build version of an appkit application.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/appkit/version.Version=1.0.0"
//
// Unset values fall back to the VCS information embedded by the toolchain.
package version
