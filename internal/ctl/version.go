package ctl

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/large-farva/tlekit/internal/propagate"
	"github.com/large-farva/tlekit/internal/tle"
)

// Build-time variables set via -ldflags.
var (
	Version   = "dev"
	GoVersion = "unknown"
)

// VersionInfo displays the CLI version and the codec limits it was built
// with.
func VersionInfo(e *Env) error {
	goVersion := GoVersion
	if goVersion == "unknown" {
		goVersion = runtime.Version()
	}
	backends := []string{propagate.BackendSGP4, propagate.BackendGoSatellite, propagate.BackendKepler}

	if e.JSON {
		return e.printJSON(map[string]any{
			"version":    Version,
			"go_version": goVersion,
			"max_sat_no": tle.MaxSatNo,
			"backends":   backends,
		})
	}

	fmt.Fprintln(e.Out)
	fmt.Fprintln(e.Out, e.header("  TLEKIT VERSION"))
	fmt.Fprintln(e.Out, e.rule(38))
	fmt.Fprintf(e.Out, "  %s %s\n", padRight("CLI:", 12), Version+" ("+goVersion+")")
	fmt.Fprintf(e.Out, "  %s %d\n", padRight("Max sat no:", 12), tle.MaxSatNo)
	fmt.Fprintf(e.Out, "  %s %s\n", padRight("Backends:", 12), strings.Join(backends, ", "))
	fmt.Fprintln(e.Out)
	return nil
}
