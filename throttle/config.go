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
	"fmt"
	"time"
)

// ThrottlerConfig bounds how many accepted detections are passed on to
// the host. BucketSize is the burst allowance; one event is earned
// back every MinRefill.
type ThrottlerConfig struct {
	ApplyThrottling bool          `yaml:"apply-throttling"`
	BucketSize      int64         `yaml:"bucket-size"`
	MinRefill       time.Duration `yaml:"min-refill"`
}

func DefaultThrottlerConfig() ThrottlerConfig {
	return ThrottlerConfig{
		ApplyThrottling: true,
		BucketSize:      10,
		MinRefill:       6 * time.Minute,
	}
}

// UnmarshalYAML merges settings over the existing values so partial
// throttler sections keep the defaults, and parses MinRefill from a
// duration string ("90s", "10m").
func (conf *ThrottlerConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw struct {
		ApplyThrottling *bool   `yaml:"apply-throttling"`
		BucketSize      *int64  `yaml:"bucket-size"`
		MinRefill       *string `yaml:"min-refill"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if raw.ApplyThrottling != nil {
		conf.ApplyThrottling = *raw.ApplyThrottling
	}
	if raw.BucketSize != nil {
		conf.BucketSize = *raw.BucketSize
	}
	if raw.MinRefill != nil {
		d, err := time.ParseDuration(*raw.MinRefill)
		if err != nil {
			return fmt.Errorf("invalid min-refill: %v", err)
		}
		conf.MinRefill = d
	}
	return nil
}
