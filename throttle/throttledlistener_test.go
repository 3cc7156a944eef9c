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

package throttle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scout-project/scout-recorder/motion"
)

type countingListener struct {
	detected  int
	filtered  int
	allocated int
}

func (c *countingListener) MotionDetected(motion.MotionResult) { c.detected++ }
func (c *countingListener) MotionFiltered(motion.MotionResult) { c.filtered++ }
func (c *countingListener) AllocationFailed(int)               { c.allocated++ }

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time        { return c.now }
func (c *testClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func newTestThrottler() (*ThrottledListener, *countingListener, *testClock) {
	conf := &ThrottlerConfig{
		ApplyThrottling: true,
		BucketSize:      3,
		MinRefill:       time.Minute,
	}
	target := new(countingListener)
	clock := &testClock{now: time.Now()}
	return NewThrottledListenerWithClock(target, conf, clock), target, clock
}

func TestDetectionBurstThenThrottled(t *testing.T) {
	throttler, target, _ := newTestThrottler()

	for i := 0; i < 5; i++ {
		throttler.MotionDetected(motion.MotionResult{Detected: true})
	}
	assert.Equal(t, 3, target.detected)
}

func TestEventsEarnedBackOverTime(t *testing.T) {
	throttler, target, clock := newTestThrottler()

	for i := 0; i < 4; i++ {
		throttler.MotionDetected(motion.MotionResult{Detected: true})
	}
	assert.Equal(t, 3, target.detected)

	clock.now = clock.now.Add(time.Minute)
	throttler.MotionDetected(motion.MotionResult{Detected: true})
	assert.Equal(t, 4, target.detected)

	throttler.MotionDetected(motion.MotionResult{Detected: true})
	assert.Equal(t, 4, target.detected)
}

func TestOtherEventsNeverThrottled(t *testing.T) {
	throttler, target, _ := newTestThrottler()

	for i := 0; i < 10; i++ {
		throttler.MotionFiltered(motion.MotionResult{SizeFiltered: true})
		throttler.AllocationFailed(4096)
	}
	assert.Equal(t, 10, target.filtered)
	assert.Equal(t, 10, target.allocated)
}
