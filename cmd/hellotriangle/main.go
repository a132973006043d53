//go:generate glslc ../../shaders/shader.vert -o ../../shaders/shader.vert.spv
//go:generate glslc ../../shaders/shader.frag -o ../../shaders/shader.frag.spv

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/assets"
	"github.com/vkngwrapper/hellotriangle/internal/config"
	"github.com/vkngwrapper/hellotriangle/internal/gpu"
	"github.com/vkngwrapper/hellotriangle/internal/gpu/vkng"
	"github.com/vkngwrapper/hellotriangle/internal/render"
	"github.com/vkngwrapper/hellotriangle/internal/window"
)

func main() {
	runtime.LockOSThread()

	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("%+v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger *logrus.Logger) error {
	shaders, err := assets.Load(ctx, os.DirFS(cfg.ShaderDir))
	if err != nil {
		return err
	}

	win, err := window.New(cfg.Title, cfg.Width, cfg.Height, logger)
	if err != nil {
		return err
	}
	defer win.Destroy()

	instance, err := vkng.NewInstance(vkng.InstanceOptions{
		ProcAddr:        win.ProcAddr(),
		ApplicationName: cfg.Title,
		Extensions:      win.InstanceExtensions(),
		Validation:      cfg.Validation,
		Diagnostics:     gpu.LogrusSink{Log: logger},
	})
	if err != nil {
		return err
	}
	defer instance.Destroy()

	renderer, err := render.New(instance, func() (gpu.Surface, error) {
		return instance.CreateSDLSurface(win.SDL())
	}, win, shaders, render.Options{
		PreferredAdapter: cfg.PreferredAdapter,
		ClearColor:       cfg.ClearColor,
		FenceTimeout:     cfg.FenceTimeout,
		MaxFrames:        cfg.MaxFrames,
	}, logger)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	if err := renderer.Run(ctx); err != nil {
		return err
	}

	logger.WithFields(renderer.Stats.Fields()).Info("Finished rendering")
	return nil
}
