// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build-time version information.
package version

import "fmt"

// Info contains version details injected via ldflags at build time.
type Info struct {
	Version   string // semantic version from git tags, "dev" otherwise
	GitCommit string // short git commit hash
	BuildTime string // build timestamp, RFC3339
}

// String formats the info the way the -v flag prints it.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}
