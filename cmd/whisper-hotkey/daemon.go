package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petems/whisper-hotkey/internal/app"
	"github.com/petems/whisper-hotkey/internal/capability"
	"github.com/petems/whisper-hotkey/internal/config"
	"github.com/petems/whisper-hotkey/internal/direct"
	"github.com/petems/whisper-hotkey/internal/hotkey"
	"github.com/petems/whisper-hotkey/internal/ipc"
	"github.com/petems/whisper-hotkey/internal/logging"
	"github.com/petems/whisper-hotkey/internal/portal"
	"github.com/petems/whisper-hotkey/internal/rawcapture"
	"github.com/petems/whisper-hotkey/internal/shortcut"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const configureTimeout = 5 * time.Minute

func runDaemon(cmd *cobra.Command, opts *options) error {
	// Load config from XDG/Library/AppData
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// Initialize logger with configured level
	log := logging.NewWithLevel(cfg.LogLevel)

	// a malformed configured hotkey is the only startup-blocking error
	spec, err := hotkey.Parse(cfg.PlatformHotkey())
	if err != nil {
		log.Error().Err(err).Msg("Invalid hotkey in config")
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := shortcut.New(log, shortcut.Options{
		Detect: func(ctx context.Context) capability.Report {
			return capability.Detect(ctx, capability.Options{})
		},
		Direct:        direct.NewRegistrar(log),
		Portal:        portalFactory(log, cfg),
		Raw:           rawcapture.NewListener(log),
		PortalTimeout: cfg.PortalTimeout(),
	})

	application := app.New(app.Config{
		Recorder: app.CommandRecorder{OnStart: cfg.OnStart, OnStop: cfg.OnStop, Log: log},
		Config:   cfg,
		Logger:   log,
	})

	server := ipc.NewServer(log, cfg.SocketPath, func(c ipc.Command) {
		switch c {
		case ipc.CmdToggle:
			application.Toggle()
			log.Debug().Bool("dictating", application.IsDictating()).Msg("Toggled over IPC")
		case ipc.CmdPress:
			orch.Inject(hotkey.Pressed)
		case ipc.CmdRelease:
			orch.Inject(hotkey.Released)
		case ipc.CmdConfigure:
			go openConfiguration(ctx, log, orch)
		}
	})
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	log.Info().Str("version", Version).Str("hotkey", spec.Canonical()).Msg("WhisperHotkey starting...")

	return shortcut.Scoped(ctx, orch, spec, func(ctx context.Context) error {
		go func() {
			select {
			case <-orch.Settled():
			case <-ctx.Done():
				return
			}
			d := orch.Diagnostics()
			logDiagnostics(log, d)
			application.SetReleaseSupported(d.ReleaseSupported)
			log.Info().Str("mode", application.EffectiveMode().String()).Msg("Activation mode")
		}()

		go watchConfig(ctx, log, cfg.File(), spec, orch, application)

		application.Run(ctx, orch.Events())
		log.Info().Msg("Shutting down...")
		return application.Shutdown(context.Background())
	})
}

func portalFactory(log zerolog.Logger, cfg *config.Config) func(capability.Report) hotkey.Registrar {
	return func(r capability.Report) hotkey.Registrar {
		var version uint32
		if r.PortalVersion != nil {
			version = *r.PortalVersion
		}
		return portal.NewSession(log, portal.Config{
			AppID:       cfg.AppID,
			ShortcutID:  cfg.ShortcutID,
			Description: cfg.ShortcutDescription,
			Version:     version,
			Compositor:  r.Compositor,
		}, portal.DconfStore{})
	}
}

// watchConfig applies mode and hotkey edits made to the config file while
// running.
func watchConfig(ctx context.Context, log zerolog.Logger, path string, current hotkey.Spec, orch *shortcut.Orchestrator, application *app.App) {
	err := config.Watch(ctx, log, path, func(next *config.Config) {
		if err := application.ApplyMode(next.Mode); err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid mode change")
		}

		spec, err := hotkey.Parse(next.PlatformHotkey())
		if err != nil {
			log.Warn().Err(err).Msg("Ignoring invalid hotkey change")
			return
		}
		if spec == current {
			return
		}
		if err := orch.Update(ctx, spec); err != nil {
			log.Error().Err(err).Str("remediation", hotkey.RemediationOf(err)).Msg("Hotkey update failed")
			return
		}
		current = spec
		if orch.Diagnostics().RestartRequired {
			log.Warn().Str("hotkey", spec.Canonical()).Msg("Restart whisper-hotkey to use the new hotkey")
		}
	})
	if err != nil {
		log.Warn().Err(err).Msg("Config watcher unavailable")
	}
}

func openConfiguration(ctx context.Context, log zerolog.Logger, orch *shortcut.Orchestrator) {
	ctx, cancel := context.WithTimeout(ctx, configureTimeout)
	defer cancel()
	trigger, changed, err := orch.OpenConfiguration(ctx)
	if err != nil {
		log.Warn().Err(err).Str("remediation", hotkey.RemediationOf(err)).Msg("Shortcut configuration unavailable")
		return
	}
	if !changed {
		log.Info().Msg("Shortcut left unchanged")
		return
	}
	log.Info().Str("trigger", trigger).Msg("Shortcut changed")
}

func logDiagnostics(log zerolog.Logger, d shortcut.Diagnostics) {
	ev := log.Info()
	if d.State == shortcut.Failed {
		ev = log.Warn()
	}
	ev.Str("state", d.State.String()).
		Str("backend", d.Report.Backend.String()).
		Str("trigger", d.Trigger).
		Bool("release_supported", d.ReleaseSupported).
		Str("error", d.LastError).
		Str("remediation", d.Remediation).
		Msg("Hotkey status")
	if d.State == shortcut.Failed {
		log.Warn().Msg("No global hotkey; use `whisper-hotkey --toggle` from a desktop shortcut instead")
	}
}
