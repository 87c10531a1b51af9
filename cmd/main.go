package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/liquidglass/glfwcontext"
	"github.com/richinsley/liquidglass/media"
	"github.com/richinsley/liquidglass/options"
	"github.com/richinsley/liquidglass/renderer"
)

func init() {
	runtime.LockOSThread()
}

func runInteractive(opts *options.LensOptions, src image.Image) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	r, err := renderer.NewRenderer(opts, ctx, src)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	// S saves the current frame.
	output := opts.Output()
	ctx.RegisterKeyCallback(glfw.KeyS, func() {
		if err := r.Snapshot(output); err != nil {
			slog.Error("snapshot failed", "error", err)
		}
	})

	slog.Info("starting interactive render loop", "backend", *opts.Backend)
	return r.Run()
}

func run() error {
	fs := flag.NewFlagSet("liquidglass", flag.ExitOnError)
	opts := options.Register(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *opts.Help {
		fmt.Println("Liquid glass lens viewer/recorder")
		fs.PrintDefaults()
		return nil
	}

	if *opts.Config != "" {
		if err := options.ApplyFile(fs, *opts.Config); err != nil {
			return err
		}
	}
	if err := InitLogger(*opts.LogLevel, os.Stderr); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	slog.Info("loading image", "source", *opts.Image)
	src, err := media.LoadImage(*opts.Image, *opts.UseCache)
	if err != nil {
		return fmt.Errorf("error loading image: %w", err)
	}
	slog.Info("image loaded", "size", src.Bounds().Size().String())

	if *opts.Mode == options.ModeInteractive {
		return runInteractive(opts, src)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return renderer.RunOffscreen(ctx, opts, src)
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, options.ErrInvalidOption) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		slog.Error("liquidglass failed", "error", err)
		os.Exit(1)
	}
}
