package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"statehost/internal/trace"
	"statehost/internal/ui"
)

func newRunCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the sample screens, resuming the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runTUI(ctx, rt)
		},
	}
}

func runTUI(ctx context.Context, rt *runtime) error {
	recorder := trace.NewRecorder(20, 200)
	sinks := []trace.Sink{recorder}

	exporter, err := trace.NewOTLPExporter(ctx, rt.cfg.Trace.Endpoint, rt.cfg.Trace.Service)
	if err != nil {
		return err
	}
	if exporter != nil {
		sinks = append(sinks, exporter)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := exporter.Shutdown(shutdownCtx); err != nil {
				rt.log.Warn().Err(err).Msg("trace exporter shutdown")
			}
		}()
		rt.log.Info().Str("endpoint", rt.cfg.Trace.Endpoint).Msg("exporting container spans")
	}

	if addr := rt.cfg.Trace.DebugAddr; addr != "" {
		server := trace.NewServer(recorder, addr, rt.log)
		if err := server.Start(); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
		rt.log.Info().Str("addr", server.Addr()).Msg("timeline server listening")
	}

	env := ui.NewEnv(ui.NewTeaScheduler(ctx))
	env.Log = rt.log
	env.Trace = trace.Multi(sinks...)
	env.Codec = rt.cfg.Codec

	app := ui.NewAppModel(ctx, env, rt.store, recorder)
	if err := app.Restore(); err != nil {
		return err
	}

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if err != nil {
		// interrupted: the quit key never ran, save here
		if serr := app.Shutdown(); serr != nil {
			rt.log.Error().Err(serr).Msg("save on interrupt")
		}
	}
	return err
}
