// Package cmd wires up the CLI flags and runs the receiver.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"emorecv/config"
	"emorecv/internal/core"
	ncerr "emorecv/internal/errors"
	"emorecv/internal/metrics"
	"emorecv/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X emorecv/cmd.version=1.1.0"
var version = "1.0.0" //nolint:gochecknoglobals

// stdout and stderr are swapped out by tests.
var (
	stdout io.Writer = os.Stdout //nolint:gochecknoglobals
	stderr io.Writer = os.Stderr //nolint:gochecknoglobals
)

// Execute parses args and runs the receiver.  With no arguments it
// listens on localhost:4000.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("emorecv", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// ── endpoint ─────────────────────────────────────────────────
	fs.StringVar(&cfg.Host, "host", cfg.Host, "Bind host")
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "Bind port (remote port with -R)")

	// ── SSH gateway ──────────────────────────────────────────────
	fs.StringVarP(&cfg.GatewaySpec, "gateway", "R", cfg.GatewaySpec, "Listen on an SSH gateway via [user@]host[:port]")
	fs.StringVar(&cfg.RemoteBind, "remote-bind", cfg.RemoteBind, "Bind address on the gateway")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	var sshTimeoutSec int
	fs.IntVar(&sshTimeoutSec, "ssh-timeout", 0, "SSH connect timeout in seconds")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.Stats, "stats", cfg.Stats, "Print receive statistics on exit")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate configuration and exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "emorecv %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (use --help for usage)", fs.Arg(0))
	}

	if sshTimeoutSec > 0 {
		cfg.ConnTimeout = time.Duration(sshTimeoutSec) * time.Second
	}
	if err := cfg.ApplyGatewaySpec(); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)
	logger.SetOutput(stderr)

	if cfg.DryRun {
		fmt.Fprintf(stderr, "configuration OK: %s\n", describe(cfg))
		return nil
	}

	// ── build and run ────────────────────────────────────────────
	var m *metrics.Collector
	if cfg.Stats {
		m = metrics.New()
	}

	mode, err := core.Build(cfg, logger, m)
	if err != nil {
		return err
	}
	if rm, ok := mode.(*core.ReceiveMode); ok {
		rm.Stdout = stdout
	}

	logger.Verbose("starting receiver: %s", describe(cfg))
	err = mode.Run(ctx)

	if m != nil {
		fmt.Fprintln(stderr, m.JSON())
	}
	if ncerr.IsAddrInUse(err) {
		logger.Error("port %d is already in use; stop the other receiver or pass -p", cfg.Port)
	}
	return err
}

// ── helpers ──────────────────────────────────────────────────────────

func describe(cfg *config.Config) string {
	if cfg.GatewayEnabled {
		return fmt.Sprintf("%s:%d via %s@%s:%d",
			cfg.RemoteBind, cfg.Port, cfg.GatewayUser, cfg.GatewayHost, cfg.GatewayPort)
	}
	return fmt.Sprintf("%s (%s)", cfg.Address(), cfg.Network)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(stderr, `emorecv – EEG emotion label receiver v%s

Accepts one sender and prints a label for every byte it sends:
  1 Surprise   2 Relief   3 Fear   4 Disgust   other: fallback

Usage:
  emorecv [options]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(stderr, `
Examples:
  emorecv                                 Listen on localhost:4000
  emorecv -p 4100 -v                      Other port, verbose
  emorecv -R lab@bastion -p 4000          Listen on the gateway's port 4000
  emorecv --stats                         Print counts per label on exit
`)
}
