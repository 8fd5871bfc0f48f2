package main

import (
	"fmt"
	"os"

	"github.com/petems/whisper-hotkey/internal/config"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	socketPath string
	toggle     bool
}

func main() {
	// the native hotkey API needs the main thread on macOS
	runOnMainThread(func() {
		if err := newRootCmd().Execute(); err != nil {
			os.Exit(1)
		}
	})
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "whisper-hotkey",
		Short:         "Global dictation hotkey for any desktop",
		Version:       fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.toggle {
				return reportErr(cmd, sendToggle(opts))
			}
			return reportErr(cmd, runDaemon(cmd, opts))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.Path()+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")
	flags.StringVar(&opts.socketPath, "socket", "", "control socket path override")
	cmd.Flags().BoolVar(&opts.toggle, "toggle", false, "toggle recording in the running instance and exit")

	cmd.AddCommand(newDiagnoseCmd(opts), newConfigureCmd(opts))
	return cmd
}

func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.socketPath != "" {
		cfg.SocketPath = opts.socketPath
	}
	return cfg, nil
}

// reportErr prints err with its remediation text.
func reportErr(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "error: %v\n", err)
	if r := hotkey.RemediationOf(err); r != "" {
		fmt.Fprintf(w, "\n%s\n", r)
	}
	return err
}
