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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scout-project/scout-recorder/frames"
	"github.com/scout-project/scout-recorder/pool"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time        { return c.now }
func (c *testClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type eventRecorder struct {
	detected  []MotionResult
	filtered  []MotionResult
	allocated []int
}

func (r *eventRecorder) MotionDetected(result MotionResult) { r.detected = append(r.detected, result) }
func (r *eventRecorder) MotionFiltered(result MotionResult) { r.filtered = append(r.filtered, result) }
func (r *eventRecorder) AllocationFailed(size int)          { r.allocated = append(r.allocated, size) }

// flakyPool fails its first allocation, then delegates to the heap.
type flakyPool struct {
	failures int
}

func (p *flakyPool) Alloc(size int) ([]byte, error) {
	if p.failures > 0 {
		p.failures--
		return nil, pool.ErrNoMemory
	}
	return make([]byte, size), nil
}

func (p *flakyPool) Free(buf []byte)      {}
func (p *flakyPool) Owns(buf []byte) bool { return true }

func TestInvalidFramesRejected(t *testing.T) {
	processor := NewMotionProcessor(defaultTestConfig(), nil, nil)

	assert.Equal(t, MotionResult{}, processor.Detect(nil))
	assert.Equal(t, MotionResult{}, processor.Detect(&frames.Frame{Format: frames.Grayscale, Width: 64, Height: 64}))
}

func TestUnsupportedPixelFormat(t *testing.T) {
	processor := NewMotionProcessor(defaultTestConfig(), nil, nil)
	tfm := MakeTestFrameMaker(processor, 64, 64)

	frame := tfm.MakeFrame()
	frame.Format = frames.PixelFormat(7)
	assert.Equal(t, MotionResult{}, processor.Detect(frame))

	// No state was touched: the next grayscale frame is still the
	// first observation.
	tfm.PlayBackgroundFrames(1)
	result := tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100))
	assert.True(t, result.Detected)
}

func TestCooldownSuppression(t *testing.T) {
	conf := defaultTestConfig()
	conf.CooldownMs = 2000

	clock := &testClock{now: time.Now()}
	processor := NewMotionProcessorWithClock(conf, nil, nil, clock)
	tfm := MakeTestFrameMaker(processor, 64, 64)

	tfm.PlayBackgroundFrames(1)
	assert.True(t, tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100)).Detected)

	// The same qualifying motion inside the cooldown window is
	// suppressed outright.
	clock.now = clock.now.Add(time.Second)
	result := tfm.PlayFrame(tfm.MakeFrameWithBlock(2, 2, 100))
	assert.Equal(t, MotionResult{}, result)

	// Once the cooldown expires, comparison resumes against the
	// baseline from before it started, so both the old and the new
	// block register as changed.
	clock.now = clock.now.Add(1100 * time.Millisecond)
	result = tfm.PlayFrame(tfm.MakeFrameWithBlock(2, 2, 100))
	assert.True(t, result.Detected)
	assert.Equal(t, 2, result.ChangedBlocks)
}

func TestListenerEvents(t *testing.T) {
	conf := defaultTestConfig()
	conf.MinSizePercent = 10

	events := new(eventRecorder)
	processor := NewMotionProcessor(conf, events, nil)
	tfm := MakeTestFrameMaker(processor, 64, 64)

	tfm.PlayBackgroundFrames(1)
	tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100)) // 6.25% < 10%
	assert.Len(t, events.filtered, 1)
	assert.Empty(t, events.detected)

	tfm.Background = 200
	tfm.PlayFrame(tfm.MakeFrame()) // whole frame: 100% > 30%
	assert.Len(t, events.filtered, 2)
	assert.Empty(t, events.detected)

	conf.MinSizePercent = 1
	conf.MaxSizePercent = 100
	processor.SetConfig(conf)
	tfm.Background = 0
	tfm.PlayFrame(tfm.MakeFrame())
	assert.Len(t, events.detected, 1)
	assert.True(t, events.detected[0].Detected)
}

func TestAllocationFailureRetriesFresh(t *testing.T) {
	events := new(eventRecorder)
	processor := NewMotionProcessor(defaultTestConfig(), events, &flakyPool{failures: 1})
	tfm := MakeTestFrameMaker(processor, 64, 64)

	// Allocation fails: no detection, one event, no stored baseline.
	result := tfm.PlayFrame(tfm.MakeFrame())
	assert.Equal(t, MotionResult{}, result)
	assert.Equal(t, []int{64 * 64}, events.allocated)

	// The next call retries as a fresh first observation.
	result = tfm.PlayFrame(tfm.MakeFrame())
	assert.Equal(t, MotionResult{}, result)

	result = tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100))
	assert.True(t, result.Detected)
}

func TestFallbackPoolServesFrames(t *testing.T) {
	// A fast pool too small for a frame: the general pool takes over
	// without the engine noticing.
	alloc := pool.NewFallback(pool.NewBounded(1024), pool.Heap{})
	processor := NewMotionProcessor(defaultTestConfig(), nil, alloc)
	tfm := MakeTestFrameMaker(processor, 64, 64)

	tfm.PlayBackgroundFrames(1)
	assert.True(t, tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100)).Detected)
}

func TestResetClearsAllState(t *testing.T) {
	conf := defaultTestConfig()
	conf.CooldownMs = 60000

	clock := &testClock{now: time.Now()}
	processor := NewMotionProcessorWithClock(conf, nil, nil, clock)
	tfm := MakeTestFrameMaker(processor, 64, 64)

	// Warm the size history ring before any cooldown kicks in.
	for i := 0; i < 4; i++ {
		tfm.PlayJpegFrame(1000)
	}

	tfm.PlayBackgroundFrames(1)
	assert.True(t, tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100)).Detected)

	processor.Reset()

	// Cooldown cleared: a new detection is accepted immediately, but
	// only after a fresh baseline frame.
	assert.False(t, tfm.PlayFrame(tfm.MakeFrameWithBlock(1, 1, 100)).Detected)
	assert.True(t, tfm.PlayFrame(tfm.MakeFrameWithBlock(2, 2, 100)).Detected)

	processor.Reset()

	// Size history cleared: the heuristic is back in warm-up.
	assert.Equal(t, MotionResult{}, tfm.PlayJpegFrame(9000))
	assert.Equal(t, MotionResult{}, tfm.PlayJpegFrame(500))
}
