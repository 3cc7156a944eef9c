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
	"log"
	"time"

	"github.com/juju/ratelimit"

	"github.com/scout-project/scout-recorder/motion"
)

func NewThrottledListener(target motion.DetectionListener, conf *ThrottlerConfig) *ThrottledListener {
	return NewThrottledListenerWithClock(target, conf, new(realClock))
}

func NewThrottledListenerWithClock(
	target motion.DetectionListener,
	conf *ThrottlerConfig,
	clock ratelimit.Clock,
) *ThrottledListener {
	// The token bucket tracks the number of detection *events* the
	// host still wants to hear about.
	refillRate := 1 / conf.MinRefill.Seconds()
	bucket := ratelimit.NewBucketWithRateAndClock(refillRate, conf.BucketSize, clock)

	return &ThrottledListener{
		target: target,
		bucket: bucket,
	}
}

// ThrottledListener wraps a DetectionListener so that accepted-motion
// events are dropped (ie get throttled) when they arrive too often.
// This is desirable as a burst of detections is likely to be one
// ongoing scene event; it can happen when vegetation keeps moving in
// wind. Filtered and allocation events pass through untouched.
type ThrottledListener struct {
	target motion.DetectionListener
	bucket *ratelimit.Bucket
}

func (throttler *ThrottledListener) MotionDetected(result motion.MotionResult) {
	if throttler.bucket.TakeAvailable(1) > 0 {
		throttler.target.MotionDetected(result)
		return
	}
	log.Print("detection event throttled")
}

func (throttler *ThrottledListener) MotionFiltered(result motion.MotionResult) {
	throttler.target.MotionFiltered(result)
}

func (throttler *ThrottledListener) AllocationFailed(size int) {
	throttler.target.AllocationFailed(size)
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
