package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v2"
)

type buildMeta struct {
	version   string
	revision  string
	modified  bool
	goVersion string
}

func cmdVersion() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build details",
		Action: func(c *cli.Context) error {
			bi, _ := debug.ReadBuildInfo()
			m := metaFromBuildInfo(bi)
			fmt.Fprintf(c.App.Writer, "version:  %s\n", printableVersion(m))
			if m.revision != "" {
				fmt.Fprintf(c.App.Writer, "revision: %s\n", m.revision)
			}
			fmt.Fprintf(c.App.Writer, "go:       %s %s/%s\n", m.goVersion, runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return printableVersion(metaFromBuildInfo(bi))
}

func metaFromBuildInfo(bi *debug.BuildInfo) buildMeta {
	m := buildMeta{goVersion: runtime.Version()}
	if bi == nil {
		return m
	}
	m.version = bi.Main.Version
	if bi.GoVersion != "" {
		m.goVersion = bi.GoVersion
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			m.revision = s.Value
		case "vcs.modified":
			m.modified = s.Value == "true"
		}
	}
	return m
}

// printableVersion prefers a tagged module version, then the VCS revision.
func printableVersion(m buildMeta) string {
	if m.version != "" && m.version != "(devel)" {
		return m.version
	}
	if m.revision != "" {
		if m.modified {
			return m.revision + " (modified)"
		}
		return m.revision
	}
	if m.version != "" {
		return m.version
	}
	return "unknown"
}
