package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/quarry/internal/adapters/detector"  //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/linear"    //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/adapters/tui"       //nolint:depguard // Wired in app layer
	"go.trai.ch/quarry/internal/core/domain"
	"go.trai.ch/quarry/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// eventBuffer absorbs bursts of progress events while a renderer redraws.
const eventBuffer = 64

// work is a pipeline run that reports on events.
type work func(ctx context.Context, events chan<- domain.StatusEvent) error

// track runs w while rendering its status events as stage spans.
func (a *App) track(ctx context.Context, outputMode string, stages []string, w work) error {
	renderer := a.newRenderer(ctx, outputMode)

	tp := setupOTel(telemetry.NewBridge(renderer))
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracer("quarry").WithRenderer(renderer)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				_, _ = fmt.Fprintf(a.stderr, "Pipeline panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		events := make(chan domain.StatusEvent, eventBuffer)
		pumped := make(chan struct{})
		go func() {
			defer close(pumped)
			pump(ctx, tracer, stages, events)
		}()

		err := w(ctx, events)
		close(events)
		<-pumped
		return err
	})

	return g.Wait()
}

func (a *App) newRenderer(ctx context.Context, outputMode string) ports.Renderer {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		return tui.NewRenderer(&model, opts...)
	}
	return linear.NewRenderer(a.stdout, a.stderr)
}

// setupOTel returns a provider that reports every span to the bridge and
// installs it globally so OTelTracer picks it up.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}

// pump turns status events into one span per stage. A span ends when the
// next stage begins; a failed event records its error on the current span.
func pump(ctx context.Context, tracer ports.Tracer, stages []string, events <-chan domain.StatusEvent) {
	tracer.EmitPlan(ctx, stages)

	var (
		stage string
		span  ports.Span
	)
	end := func() {
		if span != nil {
			span.End()
			span = nil
		}
	}
	defer end()

	for ev := range events {
		if ev.Stage == domain.StateFailed.String() {
			if span == nil {
				if stage == "" {
					stage = ev.Stage
				}
				_, span = tracer.Start(ctx, stage)
			}
			_, _ = span.Write([]byte(ev.Message + "\n"))
			err := ev.Err
			if err == nil {
				err = errors.New(ev.Message)
			}
			span.RecordError(err)
			end()
			continue
		}

		if span == nil || ev.Stage != stage {
			end()
			stage = ev.Stage
			_, span = tracer.Start(ctx, stage)
			span.SetAttribute("run_id", ev.RunID)
		}
		if ev.Total > 0 {
			span.SetAttribute("progress", fmt.Sprintf("%d/%d", ev.Done, ev.Total))
		}
		_, _ = span.Write([]byte(ev.Message + "\n"))
	}
}
