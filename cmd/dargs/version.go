// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

const modulePath = "github.com/yeetrun/dargs"

// versionInfo is what --version reports.
type versionInfo struct {
	Path     string
	Version  string // release tag or module version; empty for dev builds
	Revision string // short VCS revision
	Dirty    bool
	Go       string
}

// readVersion collects versionInfo from the ldflags override and the
// binary's embedded build info.
func readVersion() versionInfo {
	vi := versionInfo{Path: modulePath, Version: strings.TrimSpace(buildVersion)}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return vi
	}
	if bi.Main.Path != "" {
		vi.Path = bi.Main.Path
	}
	if vi.Version == "" && bi.Main.Version != "(devel)" {
		vi.Version = bi.Main.Version
	}
	vi.Go = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			vi.Revision = s.Value
		case "vcs.modified":
			vi.Dirty = s.Value == "true"
		}
	}
	if len(vi.Revision) > 9 {
		vi.Revision = vi.Revision[:9]
	}
	return vi
}

// String formats vi as "path version (revision, go)", leaving out what is
// unknown.
func (vi versionInfo) String() string {
	v := vi.Version
	if v == "" {
		v = "dev"
	}
	var extra []string
	if vi.Revision != "" {
		rev := vi.Revision
		if vi.Dirty {
			rev += "+dirty"
		}
		extra = append(extra, rev)
	}
	if vi.Go != "" {
		extra = append(extra, vi.Go)
	}
	if len(extra) == 0 {
		return fmt.Sprintf("%s %s", vi.Path, v)
	}
	return fmt.Sprintf("%s %s (%s)", vi.Path, v, strings.Join(extra, ", "))
}
