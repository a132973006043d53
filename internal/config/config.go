// Package config resolves the renderer settings from defaults, the environment
// (optionally seeded from a dotenv file) and command-line flags, in that order
// of increasing precedence.
package config

import (
	"flag"
	"io"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

const (
	EnvPrefix = "HELLOTRIANGLE_"
	// EnvFile names a dotenv file whose entries fill in variables that are not
	// already set in the process environment.
	EnvFile = EnvPrefix + "ENV_FILE"
)

type Config struct {
	Width  int
	Height int
	Title  string

	ShaderDir  string
	Validation bool

	// FenceTimeout bounds the wait for the previous frame. gpu.NoTimeout waits
	// forever.
	FenceTimeout     time.Duration
	ClearColor       mgl32.Vec4
	PreferredAdapter uuid.UUID
	// MaxFrames stops the loop after that many frames; zero runs until the
	// window closes.
	MaxFrames int

	LogLevel logrus.Level
}

func Default() Config {
	return Config{
		Width:        800,
		Height:       600,
		Title:        "Vulkan",
		ShaderDir:    "shaders",
		Validation:   true,
		FenceTimeout: gpu.NoTimeout,
		ClearColor:   mgl32.Vec4{1, 1, 0, 1},
		LogLevel:     logrus.InfoLevel,
	}
}

// Load builds the configuration for a run. args excludes the program name.
// Usage and parse errors are written to output.
func Load(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	if err := loadEnvFile(); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	fs := cfg.flagSet()
	fs.SetOutput(output)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func loadEnvFile() error {
	path := envy.Get(EnvFile, "")
	if path == "" {
		return nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	for key, value := range values {
		if _, err := envy.MustGet(key); err == nil {
			continue
		}
		envy.Set(key, value)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	lookup := func(name string, apply func(string) error) {
		if err != nil {
			return
		}
		value, missing := envy.MustGet(EnvPrefix + name)
		if missing != nil {
			return
		}
		if applyErr := apply(value); applyErr != nil {
			err = errors.Wrapf(applyErr, "parsing %s%s", EnvPrefix, name)
		}
	}

	lookup("WIDTH", intSetter(&c.Width))
	lookup("HEIGHT", intSetter(&c.Height))
	lookup("TITLE", func(v string) error { c.Title = v; return nil })
	lookup("SHADER_DIR", func(v string) error { c.ShaderDir = v; return nil })
	lookup("VALIDATION", func(v string) (perr error) {
		c.Validation, perr = strconv.ParseBool(v)
		return perr
	})
	lookup("FENCE_TIMEOUT", (*timeoutValue)(&c.FenceTimeout).Set)
	lookup("CLEAR_COLOR", (*colorValue)(&c.ClearColor).Set)
	lookup("ADAPTER", (*adapterValue)(&c.PreferredAdapter).Set)
	lookup("FRAMES", intSetter(&c.MaxFrames))
	lookup("LOG_LEVEL", (*levelValue)(&c.LogLevel).Set)

	return err
}

func intSetter(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func (c *Config) flagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("hellotriangle", flag.ContinueOnError)

	fs.IntVar(&c.Width, "width", c.Width, "Window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "Window height in pixels")
	fs.StringVar(&c.Title, "title", c.Title, "Window title")
	fs.StringVar(&c.ShaderDir, "shaders", c.ShaderDir, "Directory holding shader.vert.spv and shader.frag.spv")
	fs.BoolVar(&c.Validation, "vkdbg", c.Validation, "Load Vulkan validation layers")
	fs.Var((*timeoutValue)(&c.FenceTimeout), "fence-timeout", "Maximum wait for the previous frame, or \"none\"")
	fs.Var((*colorValue)(&c.ClearColor), "clear", "Clear colour as r,g,b,a")
	fs.Var((*adapterValue)(&c.PreferredAdapter), "adapter", "Pipeline cache UUID of the preferred adapter")
	fs.IntVar(&c.MaxFrames, "frames", c.MaxFrames, "Stop after this many frames (0 runs until closed)")
	fs.Var((*levelValue)(&c.LogLevel), "log-level", "Log level (panic, fatal, error, warn, info, debug, trace)")

	return fs
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.ShaderDir == "" {
		return errors.New("shader directory must be set")
	}
	if c.MaxFrames < 0 {
		return errors.Errorf("frame budget must not be negative, got %d", c.MaxFrames)
	}
	for i, channel := range c.ClearColor {
		if channel < 0 || channel > 1 {
			return errors.Errorf("clear colour channel %d out of range: %g", i, channel)
		}
	}
	return nil
}
