// scout-recorder - frame-to-frame motion detection for the Scout edge camera
//  Copyright (C) 2024, The Scout Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package motion

import (
	"time"

	"github.com/juju/ratelimit"

	"github.com/scout-project/scout-recorder/frames"
	"github.com/scout-project/scout-recorder/loglimiter"
	"github.com/scout-project/scout-recorder/pool"
)

const minLogInterval = time.Minute

// DetectionListener receives the structured events a detection cycle
// can produce. Log lines are observational only; listeners are the
// hook for host behaviour.
type DetectionListener interface {
	MotionDetected(result MotionResult)
	MotionFiltered(result MotionResult)
	AllocationFailed(size int)
}

type nullListener struct{}

func (*nullListener) MotionDetected(MotionResult) {}
func (*nullListener) MotionFiltered(MotionResult) {}
func (*nullListener) AllocationFailed(int)        {}

// NewMotionProcessor returns a processor using the system clock. A nil
// listener discards events; a nil alloc uses the Go heap.
func NewMotionProcessor(conf MotionConfig, listener DetectionListener, alloc pool.Pool) *MotionProcessor {
	return NewMotionProcessorWithClock(conf, listener, alloc, new(realClock))
}

func NewMotionProcessorWithClock(
	conf MotionConfig,
	listener DetectionListener,
	alloc pool.Pool,
	clock ratelimit.Clock,
) *MotionProcessor {
	if listener == nil {
		listener = new(nullListener)
	}
	if alloc == nil {
		alloc = pool.Heap{}
	}
	store := NewFrameStore(alloc)
	return &MotionProcessor{
		conf:     conf,
		store:    store,
		detector: newBlockDetector(store),
		listener: listener,
		clock:    clock,
		log:      loglimiter.New(minLogInterval),
	}
}

// MotionProcessor runs one detection cycle per submitted frame:
// grayscale frames go through the block-diff detector, JPEG frames
// through the size heuristic, then the size filter and cooldown decide
// final acceptance. It is not safe for concurrent use; the host must
// funnel all frames through one goroutine.
type MotionProcessor struct {
	conf      MotionConfig
	store     *FrameStore
	detector  *blockDetector
	heuristic jpegHeuristic
	cooldown  cooldown
	listener  DetectionListener
	clock     ratelimit.Clock
	log       *loglimiter.LogLimiter
}

// Detect decides whether frame shows meaningful motion relative to the
// previous one. All failures are soft: an invalid or unsupported frame
// yields an all-zero result and a log line, never an error.
func (mp *MotionProcessor) Detect(frame *frames.Frame) MotionResult {
	var result MotionResult

	if frame == nil || len(frame.Pix) == 0 {
		mp.log.Print("invalid frame")
		return result
	}

	now := mp.clock.Now()

	// During cooldown the comparison and baseline update are skipped
	// entirely. Once cooldown expires, comparison resumes against the
	// baseline from before it started.
	if mp.cooldown.active(now, &mp.conf) {
		return result
	}

	switch frame.Format {
	case frames.JPEG:
		result = mp.heuristic.compare(frame)
	case frames.Grayscale:
		result = mp.compareGrayscale(frame)
	default:
		mp.log.Printf("unsupported pixel format: %d", frame.Format)
		return result
	}

	if result.Detected {
		mp.cooldown.markAccepted(now)
		mp.listener.MotionDetected(result)
		mp.log.Printf("motion detected: box (%d,%d) %dx%d, size %.1f%%, confidence %.2f",
			result.X, result.Y, result.Width, result.Height,
			result.SizePercent, result.Confidence)
	} else if result.SizeFiltered {
		mp.listener.MotionFiltered(result)
		if mp.conf.Verbose {
			mp.log.Printf("motion filtered: size %.1f%%", result.SizePercent)
		}
	}

	return result
}

func (mp *MotionProcessor) compareGrayscale(frame *frames.Frame) MotionResult {
	var result MotionResult

	if len(frame.Pix) < frame.PixelCount() {
		mp.log.Print("invalid frame: truncated grayscale payload")
		return result
	}

	fresh, err := mp.store.Ensure(frame.Width, frame.Height)
	if err != nil {
		mp.log.Printf("failed to allocate baseline buffer: %v", err)
		mp.listener.AllocationFailed(frame.PixelCount())
		return result
	}

	if fresh {
		// First observation at these dimensions: store a baseline,
		// detection needs two frames.
		mp.store.Store(frame.Pix)
		return result
	}

	result = mp.detector.compare(frame, &mp.conf)
	applySizeFilter(&result, &mp.conf)
	return result
}

// Reset releases the baseline buffer and clears the size history and
// cooldown state, forcing a clean restart.
func (mp *MotionProcessor) Reset() {
	mp.store.Release()
	mp.heuristic.reset()
	mp.cooldown.reset()
}

// SetConfig replaces the configuration as a whole.
func (mp *MotionProcessor) SetConfig(conf MotionConfig) {
	mp.conf = conf
}

func (mp *MotionProcessor) Config() MotionConfig {
	return mp.conf
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Sleep implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
