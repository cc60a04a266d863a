// Tlectl decodes, encodes and fits Two-Line Element sets. It reads element
// sets from arguments, catalog files or stdin and prints formatted text or
// JSON.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/large-farva/tlekit/internal/config"
	"github.com/large-farva/tlekit/internal/ctl"
	"github.com/large-farva/tlekit/internal/logging"
	"github.com/large-farva/tlekit/internal/metrics"
)

func main() {
	var (
		cfgPath  = pflag.StringP("config", "c", "", "Path to a TOML config file (defaults apply when omitted)")
		jsonOut  = pflag.Bool("json", false, "Output JSON instead of formatted text")
		logLevel = pflag.String("log-level", "", "Override logging.level (debug, info, warn, error)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger := logging.New(cfg.Logging, os.Stderr)

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	env := ctl.NewEnv(cfg, logger, m, *jsonOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	switch cmd {
	// ── Codec commands ────────────────────────────────────────────
	case "decode":
		opts := ctl.DecodeOptions{}
		decodeFlags := pflag.NewFlagSet("decode", pflag.ExitOnError)
		decodeFlags.StringVarP(&opts.File, "file", "f", "", "Catalog file to read (- for stdin)")
		_ = decodeFlags.Parse(subArgs)
		opts.Args = decodeFlags.Args()
		err = ctl.Decode(env, opts)

	case "encode":
		var opts ctl.EncodeOptions
		encFlags := pflag.NewFlagSet("encode", pflag.ExitOnError)
		encFlags.IntVar(&opts.SatNo, "sat-no", 99999, "Catalog number (0-339999)")
		encFlags.StringVar(&opts.Classification, "class", "U", "Classification")
		encFlags.StringVar(&opts.Designator, "designator", "", "International designator (YYNNNPPP)")
		encFlags.StringVar(&opts.Epoch, "epoch", "", "Epoch, RFC 3339 or YYDDD.DDDDDDDD")
		encFlags.IntVar(&opts.ElementSetNo, "elset", 999, "Element set number")
		encFlags.IntVar(&opts.RevNumber, "rev", 0, "Revolution number at epoch")
		encFlags.BoolVar(&opts.Ballistic, "ballistic", false, "Emit the ballistic-area variant (ephemeris type 4)")
		encFlags.Float64Var(&opts.MeanMotionDot, "ndot", 0, "First derivative of mean motion / 2 (rev/day^2)")
		encFlags.Float64Var(&opts.MeanMotionDDot, "nddot", 0, "Second derivative of mean motion / 6 (rev/day^3)")
		encFlags.Float64Var(&opts.BStar, "bstar", 0, "B* drag term (1/earth radii)")
		encFlags.Float64Var(&opts.AGOM, "agom", 0, "Area over mass (m^2/kg, ballistic only)")
		encFlags.Float64Var(&opts.BTerm, "bterm", 0, "Ballistic coefficient (ballistic only)")
		encFlags.Float64Var(&opts.Inclination, "incl", 0, "Inclination (deg)")
		encFlags.Float64Var(&opts.RAAN, "raan", 0, "Right ascension of the ascending node (deg)")
		encFlags.Float64Var(&opts.Eccentricity, "ecc", 0, "Eccentricity")
		encFlags.Float64Var(&opts.ArgPerigee, "argp", 0, "Argument of perigee (deg)")
		encFlags.Float64Var(&opts.MeanAnomaly, "ma", 0, "Mean anomaly (deg)")
		encFlags.Float64Var(&opts.MeanMotion, "mean-motion", 0, "Mean motion (rev/day)")
		_ = encFlags.Parse(subArgs)
		err = ctl.Encode(env, opts)

	case "checksum":
		err = ctl.Checksum(env, subArgs)

	case "alpha5":
		err = ctl.Alpha5(env, subArgs)

	case "sample":
		var output string
		sampleFlags := pflag.NewFlagSet("sample", pflag.ExitOnError)
		sampleFlags.StringVarP(&output, "output", "o", "", "Write the catalog to a file instead of stdout")
		_ = sampleFlags.Parse(subArgs)
		err = ctl.Sample(env, output)

	// ── Element commands ──────────────────────────────────────────
	case "vector":
		opts := ctl.DecodeOptions{}
		vecFlags := pflag.NewFlagSet("vector", pflag.ExitOnError)
		vecFlags.StringVarP(&opts.File, "file", "f", "", "Catalog file to read (- for stdin)")
		_ = vecFlags.Parse(subArgs)
		opts.Args = vecFlags.Args()
		err = ctl.Vector(env, opts)

	case "from-coe":
		var opts ctl.COEOptions
		coeFlags := pflag.NewFlagSet("from-coe", pflag.ExitOnError)
		elementFlags(coeFlags, &opts.ElementsOptions)
		coeFlags.Float64VarP(&opts.SemiMajorAxis, "sma", "a", 0, "Semi-major axis (km)")
		coeFlags.Float64Var(&opts.Eccentricity, "ecc", 0, "Eccentricity")
		coeFlags.Float64Var(&opts.Inclination, "incl", 0, "Inclination (deg)")
		coeFlags.Float64Var(&opts.RAAN, "raan", 0, "Right ascension of the ascending node (deg)")
		coeFlags.Float64Var(&opts.ArgPerigee, "argp", 0, "Argument of perigee (deg)")
		coeFlags.Float64Var(&opts.MeanAnomaly, "ma", 0, "Mean anomaly (deg)")
		_ = coeFlags.Parse(subArgs)
		err = ctl.FromCOE(env, opts)

	case "from-rv":
		var opts ctl.RVOptions
		rvFlags := pflag.NewFlagSet("from-rv", pflag.ExitOnError)
		elementFlags(rvFlags, &opts.ElementsOptions)
		rvFlags.Float64SliceVar(&opts.Position, "pos", nil, "Position x,y,z (km)")
		rvFlags.Float64SliceVar(&opts.Velocity, "vel", nil, "Velocity x,y,z (km/s)")
		_ = rvFlags.Parse(subArgs)
		err = ctl.FromRV(env, opts)

	// ── Fitting ───────────────────────────────────────────────────
	case "fit":
		opts := ctl.FitOptions{}
		fitFlags := pflag.NewFlagSet("fit", pflag.ExitOnError)
		fitFlags.StringVarP(&opts.File, "file", "f", "", "Catalog file holding the seed (- for stdin)")
		fitFlags.IntVar(&opts.SatNo, "sat-no", 0, "Catalog number to fit (default: first in input)")
		fitFlags.StringVar(&opts.Truth, "truth", "sgp4", "Backend generating observations (sgp4, go-satellite, kepler)")
		fitFlags.StringVar(&opts.Ephemeris, "ephemeris", "", "JSON ephemeris to fit instead of a truth backend")
		fitFlags.StringVar(&opts.Events, "events", "", "Write JSON-lines fit events to a file (- for stderr)")
		fitFlags.StringVar(&env.Config.Fit.Backend, "backend", env.Config.Fit.Backend, "Backend inside the fit objective")
		_ = fitFlags.Parse(subArgs)
		opts.Args = fitFlags.Args()
		err = ctl.Fit(ctx, env, opts)

	case "version":
		err = ctl.VersionInfo(env)

	default:
		usage()
		os.Exit(2)
	}

	if err == nil && cfg.Metrics.Textfile != "" {
		err = m.WriteTextfile(cfg.Metrics.Textfile)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func elementFlags(fs *pflag.FlagSet, opts *ctl.ElementsOptions) {
	fs.StringVar(&opts.Epoch, "epoch", "", "Epoch, RFC 3339 or YYDDD.DDDDDDDD (default: now)")
	fs.IntVar(&opts.SatNo, "sat-no", 99999, "Catalog number (0-339999)")
	fs.BoolVar(&opts.Ballistic, "ballistic", false, "Emit the ballistic-area variant (ephemeris type 4)")
}

func usage() {
	fmt.Print(`
  tlectl — Two-Line Element toolkit

  USAGE
    tlectl [flags] <command> [command-flags] [args]

  COMMANDS (codec)
    decode          Print every field of one or more element sets
    encode          Render an element set from field values
    checksum        Compute and verify line checksums
    alpha5          Convert catalog numbers to and from alpha5
    sample          Print the built-in sample catalog

  COMMANDS (elements)
    vector          Show the normalized parameter vector of element sets
    from-coe        Build an element set from classical elements
    from-rv         Build an element set from a position and velocity

  COMMANDS (fitting)
    fit             Fit an element set to an ephemeris

  COMMANDS (info)
    version         Show version information

  GLOBAL FLAGS
    -c, --config PATH       TOML config file
        --json              Output JSON instead of formatted text
        --log-level LEVEL   Override logging.level

  COMMAND FLAGS
    decode, vector:
    -f, --file PATH         Catalog file (- for stdin); or give LINE1 LINE2

    encode:
        --sat-no N          Catalog number (default: 99999)
        --epoch TIME        RFC 3339 or YYDDD.DDDDDDDD
        --incl/--raan/--ecc/--argp/--ma/--mean-motion
        --ndot/--nddot/--bstar  Drag terms
        --ballistic --agom --bterm  Ballistic-area terms

    from-coe:
    -a, --sma KM            Semi-major axis
        --ecc/--incl/--raan/--argp/--ma, --epoch, --sat-no, --ballistic

    from-rv:
        --pos X,Y,Z         Position (km)
        --vel X,Y,Z         Velocity (km/s)
        --epoch, --sat-no, --ballistic

    fit:
    -f, --file PATH         Catalog holding the seed element set
        --sat-no N          Pick this catalog number from the file
        --backend NAME      Backend inside the objective (default: fit.backend)
        --truth NAME        Backend generating observations (default: sgp4)
        --ephemeris PATH    JSON ephemeris to fit instead
        --events PATH       JSON-lines fit events (- for stderr)

    sample:
    -o, --output PATH       Write to a file

  EXAMPLES
    tlectl sample
    tlectl sample | tlectl decode -f -
    tlectl --json decode "1 25544U ..." "2 25544 ..."
    tlectl checksum "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
    tlectl alpha5 148493 E8493
    tlectl from-coe -a 7000 --ecc 0.001 --incl 51.6 --epoch 2024-06-01T00:00:00Z
    tlectl from-rv --pos 7000,0,0 --vel 0,5.3,5.3
    tlectl sample -o /tmp/sample.tle
    tlectl fit -f /tmp/sample.tle --sat-no 25544 --backend kepler --events -

`)
}
