package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/petems/whisper-hotkey/internal/capability"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/petems/whisper-hotkey/internal/ipc"
	"github.com/petems/whisper-hotkey/internal/permissions"
	"github.com/petems/whisper-hotkey/internal/portal"
	"github.com/spf13/cobra"
)

func sendToggle(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	return ipc.SendToggle(cfg.SocketPath)
}

func newConfigureCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Open the desktop's shortcut dialog in the running instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return reportErr(cmd, err)
			}
			return reportErr(cmd, ipc.Send(cfg.SocketPath, ipc.CmdConfigure))
		},
	}
}

func newDiagnoseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnose",
		Short: "Print which hotkey backend this desktop supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return reportErr(cmd, err)
			}
			report := capability.Detect(cmd.Context(), capability.Options{})
			printReport(cmd.OutOrStdout(), report, cfg.PlatformHotkey())
			return nil
		},
	}
}

func printReport(w io.Writer, r capability.Report, configured string) {
	version := "absent"
	if r.PortalVersion != nil {
		version = fmt.Sprintf("%d", *r.PortalVersion)
	}
	fmt.Fprintf(w, "session:     %s\n", r.SessionType)
	fmt.Fprintf(w, "compositor:  %s\n", r.Compositor)
	fmt.Fprintf(w, "sandboxed:   %t\n", r.Sandboxed)
	fmt.Fprintf(w, "portal:      %s\n", version)
	if r.ProbeError != "" {
		fmt.Fprintf(w, "probe error: %s\n", r.ProbeError)
	}
	fmt.Fprintf(w, "backend:     %s\n", r.Backend)

	spec, err := hotkey.Parse(configured)
	if err != nil {
		fmt.Fprintf(w, "hotkey:      %q is invalid: %v\n", configured, err)
		return
	}
	native, err := hotkey.ToNative(spec, r.Backend)
	if err != nil {
		fmt.Fprintf(w, "hotkey:      %s (%v)\n", spec, err)
	} else {
		fmt.Fprintf(w, "hotkey:      %s -> %s\n", spec, native)
	}

	switch r.Backend {
	case hotkey.PortalShortcuts:
		fmt.Fprintf(w, "configure:   %t\n", r.CanConfigure())
	case hotkey.RawCaptureFallback:
		probe := permissions.ProbeInput()
		fmt.Fprintf(w, "input:       %s (%s)\n", probe.Status, probe.Message)
		if probe.Status != permissions.StatusGranted && probe.Guidance != "" {
			fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(probe.Guidance))
		}
		fmt.Fprintf(w, "\n%s\n", portal.Instructions(r.Compositor, spec))
	}
}
