package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/shadertuner/app"
	"github.com/richinsley/shadertuner/bridge"
	"github.com/richinsley/shadertuner/dialog"
	"github.com/richinsley/shadertuner/glfwcontext"
	"github.com/richinsley/shadertuner/options"
	"github.com/richinsley/shadertuner/params"
	"github.com/richinsley/shadertuner/renderer"
	"github.com/richinsley/shadertuner/shader"
)

func init() {
	runtime.LockOSThread()
}

func runInteractive(ctx *glfwcontext.Context, opts *options.Options, logger *slog.Logger) {
	var r *renderer.Renderer
	factory := func(surfaceID string) (bridge.Renderer, error) {
		w, h := ctx.GetFramebufferSize()
		nr, err := renderer.New(ctx, surfaceID, w, h, false, logger)
		if err != nil {
			return nil, err
		}
		r = nr
		return nr, nil
	}

	b := bridge.New(factory, ctx, logger)
	a := app.New(ctx, b, dialog.New(logger), ctx.SetTitle, app.Config{
		Title:     opts.Title,
		Collapsed: opts.Collapsed,
	}, logger)
	defer a.Close()

	a.ResizeWindow(ctx.GetWindowSize())
	cancelResize := ctx.OnWindowResize(a.ResizeWindow)
	defer cancelResize()
	ctx.SetPointerHandlers(a.Press, a.Secondary, a.Hover)
	ctx.RegisterKeyCallback(glfw.KeyEscape, ctx.SetShouldClose)
	ctx.RegisterKeyCallback(glfw.KeySpace, a.TogglePause)
	ctx.RegisterKeyCallback(glfw.KeyTab, a.TogglePanel)
	ctx.RegisterKeyCallback(glfw.KeyR, a.Reset)

	a.Start()
	logger.Info("starting interactive render loop")
	for !ctx.ShouldClose() {
		a.Poll()
		if r != nil && b.Healthy() {
			r.RenderFrame()
			r.DrawOverlay(a.Overlay())
		}
		ctx.EndFrame()
	}
}

func runRecord(ctx *glfwcontext.Context, opts *options.Options, logger *slog.Logger) error {
	r, err := renderer.New(ctx, bridge.NewSurfaceID(), opts.Width, opts.Height, true, logger)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Release()

	if err := r.SetImage(shader.Generate(params.Defaults())); err != nil {
		return err
	}
	err = r.Record(renderer.RecordOptions{
		Duration:   opts.Duration,
		FPS:        opts.FPS,
		OutputFile: opts.OutputFile,
		FFmpegPath: opts.FFmpegPath,
	})
	if err != nil {
		return fmt.Errorf("offscreen rendering failed: %w", err)
	}
	logger.Info("successfully rendered", "output", opts.OutputFile)
	return nil
}

func main() {
	opts, err := options.Parse(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	level, _ := opts.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts, !opts.Record)
	if err != nil {
		glfwcontext.TerminateGraphics()
		log.Fatalf("Failed to create window: %v", err)
	}
	defer ctx.Shutdown()

	if opts.Record {
		if err := runRecord(ctx, opts, logger); err != nil {
			logger.Error("record mode failed", "err", err)
			ctx.Shutdown()
			glfwcontext.TerminateGraphics()
			os.Exit(1)
		}
		return
	}
	runInteractive(ctx, opts, logger)
}
