package koi

import (
	"fmt"
	"time"
)

// RenderStats keeps rolling statistics about the render loop: frames per
// second, how long the last DrawRequest took, how long recording the
// pooled draws took, and the pool sizes of the last frame.
type RenderStats struct {
	Disabled bool

	framesPerSec     int
	lastRequestTime  time.Duration
	lastPoolTime     time.Duration
	lastPoolElements int
	poolVertices     int

	frameCounter int
	fpsMark      time.Time
	requestMark  time.Time
	poolMark     time.Time
}

func newRenderStats() RenderStats {
	now := time.Now()
	return RenderStats{fpsMark: now, requestMark: now, poolMark: now}
}

func (s *RenderStats) startRequestTimer() {
	if s.Disabled {
		return
	}
	s.requestMark = time.Now()
}

func (s *RenderStats) stopRequestTimer() {
	if s.Disabled {
		return
	}
	s.lastRequestTime = time.Since(s.requestMark)
}

func (s *RenderStats) startPoolTimer() {
	if s.Disabled {
		return
	}
	s.poolMark = time.Now()
}

func (s *RenderStats) stopPoolTimer() {
	if s.Disabled {
		return
	}
	s.lastPoolTime = time.Since(s.poolMark)
}

// update rolls the frame counter over into the FPS figure once per
// second and records the pool sizes of the frame just submitted.
func (s *RenderStats) update(poolElements, poolVertices int) {
	if s.Disabled {
		return
	}

	if time.Since(s.fpsMark) >= time.Second {
		s.framesPerSec = s.frameCounter
		s.frameCounter = 0
		s.fpsMark = time.Now()
	} else {
		s.frameCounter++
	}

	s.lastPoolElements = poolElements
	s.poolVertices = poolVertices
}

// FPS returns the frame count of the last full second.
func (s *RenderStats) FPS() int { return s.framesPerSec }

// String formats the stats as the multi-line overlay text.
func (s *RenderStats) String() string {
	return fmt.Sprintf("fps: %d\nrequest time: %d us\npool creation time: %d us\nelements: %d\nvertices: %d",
		s.framesPerSec,
		s.lastRequestTime.Microseconds(),
		s.lastPoolTime.Microseconds(),
		s.lastPoolElements,
		s.poolVertices)
}
