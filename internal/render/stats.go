package render

import (
	"time"

	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// FrameStats accumulates frame times measured with the high resolution clock.
type FrameStats struct {
	Frames int
	Total  time.Duration
	Max    time.Duration

	now   func() time.Duration
	start time.Duration
}

func NewFrameStats() *FrameStats {
	return &FrameStats{now: hrtime.Now}
}

func (s *FrameStats) Begin() {
	s.start = s.now()
}

func (s *FrameStats) End() {
	elapsed := s.now() - s.start
	s.Frames++
	s.Total += elapsed
	if elapsed > s.Max {
		s.Max = elapsed
	}
}

func (s *FrameStats) Mean() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Frames)
}

func (s *FrameStats) Fields() logrus.Fields {
	return logrus.Fields{
		"frames": s.Frames,
		"mean":   s.Mean(),
		"max":    s.Max,
	}
}
