// Dopctl is the command-line client for a running dopplerd instance. It
// connects over HTTP and WebSocket to query passes, generate Doppler channel
// plans, and stream live events from the daemon.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/bernardsmith0892/Ham-Doppler-Calc/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Doppler daemon URL (e.g. http://192.168.8.1:8080)")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter state,log)")
	)

	// Stop parsing global flags at the first non-flag argument (the command
	// name), so subcommand-specific flags like --channels are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// ── Query commands ────────────────────────────────────────────
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "health":
		err = ctl.Health(*host, *jsonOut)

	case "version":
		err = ctl.VersionInfo(*host, *jsonOut)

	case "satellites":
		err = ctl.Satellites(*host, *jsonOut)

	case "config":
		err = ctl.Config(*host, *jsonOut)

	case "transmitters":
		txFlags := pflag.NewFlagSet("transmitters", pflag.ContinueOnError)
		_ = txFlags.Parse(subArgs)
		if txFlags.NArg() < 1 {
			err = fmt.Errorf("usage: dopctl transmitters <satellite>")
			break
		}
		err = ctl.Transmitters(*host, txFlags.Arg(0), *jsonOut)

	case "passes":
		opts := ctl.PassesOptions{JSON: *jsonOut}
		passFlags := pflag.NewFlagSet("passes", pflag.ContinueOnError)
		passFlags.IntVar(&opts.Count, "count", 0, "Limit number of passes shown")
		passFlags.StringVar(&opts.Satellite, "satellite", "", "Filter by satellite name")
		_ = passFlags.Parse(subArgs)
		err = ctl.Passes(*host, opts)

	case "next-pass":
		opts := ctl.NextPassOptions{JSON: *jsonOut}
		npFlags := pflag.NewFlagSet("next-pass", pflag.ContinueOnError)
		npFlags.StringVar(&opts.Satellite, "satellite", "", "Filter by satellite name")
		_ = npFlags.Parse(subArgs)
		err = ctl.NextPass(*host, opts)

	case "location":
		err = ctl.Location(*host, *jsonOut)

	case "tle-info":
		err = ctl.TLEInfo(*host, *jsonOut)

	// ── Planning commands ─────────────────────────────────────────
	case "plan":
		opts := ctl.PlanOptions{JSON: *jsonOut}
		planFlags := pflag.NewFlagSet("plan", pflag.ContinueOnError)
		planFlags.IntVar(&opts.NoradID, "norad-id", 0, "NORAD catalog ID (alternative to satellite name)")
		planFlags.StringVar(&opts.Transmitter, "transmitter", "", "Filter transmitters by description")
		planFlags.IntVar(&opts.Channels, "channels", 0, "Memory channels per plan (default from daemon config)")
		planFlags.IntVar(&opts.Passes, "passes", 0, "Passes to average (default from daemon config)")
		_ = planFlags.Parse(subArgs)
		if planFlags.NArg() > 0 {
			opts.Satellite = planFlags.Arg(0)
		}
		if opts.Satellite == "" && opts.NoradID == 0 {
			err = fmt.Errorf("usage: dopctl plan <satellite> [--norad-id ID] [flags]")
			break
		}
		err = ctl.Plan(*host, opts)

	case "profile":
		opts := ctl.ProfileOptions{JSON: *jsonOut}
		profFlags := pflag.NewFlagSet("profile", pflag.ContinueOnError)
		profFlags.StringVar(&opts.Transmitter, "transmitter", "", "Filter transmitters by description")
		_ = profFlags.Parse(subArgs)
		if profFlags.NArg() < 1 {
			err = fmt.Errorf("usage: dopctl profile <satellite> [--transmitter DESC]")
			break
		}
		opts.Satellite = profFlags.Arg(0)
		err = ctl.Profile(*host, opts)

	// ── Control commands ──────────────────────────────────────────
	case "tle-refresh":
		err = ctl.TLERefresh(*host, *jsonOut)

	// ── Live streaming ────────────────────────────────────────────
	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{
			Filter: *filter,
			JSON:   *jsonOut,
		})

	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Print(`
  dopctl — Ham-Doppler-Calc control CLI

  USAGE
    dopctl [flags] <command> [command-flags]

  COMMANDS (query)
    status          Show daemon state, uptime, and station details
    health          Check daemon liveness
    version         Show CLI and daemon version information
    satellites      List the amateur satellite catalog
    config          Show the daemon's running configuration
    transmitters    List SatNOGS transmitters for a satellite
    passes          List upcoming satellite passes
    next-pass       Show the next upcoming pass
    location        Show the resolved ground station location
    tle-info        Show TLE cache status and freshness

  COMMANDS (planning)
    plan            Generate Doppler channel plans and a switch schedule
    profile         Show the second-by-second shift profile for the next pass

  COMMANDS (control)
    tle-refresh     Force a TLE data update from the network

  COMMANDS (live)
    watch           Stream live events from the daemon (Ctrl-C to stop)

  GLOBAL FLAGS
    -H, --host URL      Daemon base URL (default: http://127.0.0.1:8080)
        --json          Output raw JSON instead of formatted text
        --filter TYPE   Event types to show in watch (comma-separated)

  COMMAND FLAGS
    passes:
        --count N           Limit number of passes shown
        --satellite NAME    Filter by satellite name

    next-pass:
        --satellite NAME    Filter by satellite name

    plan:
        --norad-id ID       NORAD catalog ID (alternative to satellite name)
        --transmitter DESC  Filter transmitters by description substring
        --channels N        Memory channels per plan
        --passes N          Passes to average per plan

    profile:
        --transmitter DESC  Filter transmitters by description substring

  EXAMPLES
    dopctl status
    dopctl --json status
    dopctl --host http://192.168.8.1:8080 watch
    dopctl satellites
    dopctl transmitters SO-50
    dopctl passes --satellite AO-91 --count 5
    dopctl next-pass --satellite SO-50
    dopctl plan SO-50 --channels 5 --passes 3
    dopctl plan AO-91 --transmitter "FM Voice"
    dopctl profile SO-50
    dopctl location
    dopctl tle-refresh
    dopctl tle-info
    dopctl watch --filter state,log,plan_ready

`)
}
