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

import "time"

// cooldown suppresses new accepted detections for a configured
// interval after the last accepted one.
type cooldown struct {
	lastAccepted time.Time
}

func (c *cooldown) active(now time.Time, conf *MotionConfig) bool {
	if c.lastAccepted.IsZero() || conf.CooldownMs <= 0 {
		return false
	}
	return now.Sub(c.lastAccepted) < conf.cooldown()
}

func (c *cooldown) markAccepted(now time.Time) {
	c.lastAccepted = now
}

func (c *cooldown) reset() {
	c.lastAccepted = time.Time{}
}
