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

package loglimiter

import (
	"fmt"
	"log"
	"time"
)

// Entries tracked before old ones are pruned.
const maxEntries = 64

// New returns a LogLimiter with the configured minimum interval between
// repeats of the same message.
func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
		lastSeen: make(map[string]time.Time),
	}
}

// LogLimiter suppresses a log message if the same message was emitted
// within some time interval. Each distinct message is limited
// independently, so an engine logging several kinds of per-frame
// diagnostics won't let one kind flush the suppression of another.
type LogLimiter struct {
	interval time.Duration
	nowFunc  func() time.Time
	lastSeen map[string]time.Time
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.Print(fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	now := limiter.nowFunc()
	if last, ok := limiter.lastSeen[s]; ok && now.Sub(last) < limiter.interval {
		return
	}

	log.Print(s)
	limiter.prune(now)
	limiter.lastSeen[s] = now
}

func (limiter *LogLimiter) prune(now time.Time) {
	if len(limiter.lastSeen) < maxEntries {
		return
	}
	for s, last := range limiter.lastSeen {
		if now.Sub(last) >= limiter.interval {
			delete(limiter.lastSeen, s)
		}
	}
}
