package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/hellotriangle/internal/gpu"
)

// flag.Value implementations shared by the flag set and the environment.

type timeoutValue time.Duration

func (t *timeoutValue) String() string {
	if t == nil || time.Duration(*t) == gpu.NoTimeout {
		return "none"
	}
	return time.Duration(*t).String()
}

func (t *timeoutValue) Set(s string) error {
	if s == "none" || s == "" {
		*t = timeoutValue(gpu.NoTimeout)
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.Errorf("timeout must be positive, got %s", d)
	}
	*t = timeoutValue(d)
	return nil
}

type colorValue mgl32.Vec4

func (c *colorValue) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

func (c *colorValue) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return errors.Errorf("expected r,g,b,a but got %q", s)
	}

	var out mgl32.Vec4
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return errors.Wrapf(err, "channel %d", i)
		}
		out[i] = float32(v)
	}
	*c = colorValue(out)
	return nil
}

type adapterValue uuid.UUID

func (a *adapterValue) String() string {
	if a == nil || uuid.UUID(*a) == uuid.Nil {
		return ""
	}
	return uuid.UUID(*a).String()
}

func (a *adapterValue) Set(s string) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*a = adapterValue(id)
	return nil
}

type levelValue logrus.Level

func (l *levelValue) String() string {
	if l == nil {
		return ""
	}
	return logrus.Level(*l).String()
}

func (l *levelValue) Set(s string) error {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return err
	}
	*l = levelValue(level)
	return nil
}
