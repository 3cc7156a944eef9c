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
	"errors"
	"time"
)

// MotionConfig is the tunable policy for a detection cycle. It is read
// as a whole on each call; replace it wholesale via SetConfig.
type MotionConfig struct {
	Threshold      uint8   `yaml:"threshold"`
	MinSizePercent float64 `yaml:"min-size-percent"`
	MaxSizePercent float64 `yaml:"max-size-percent"`
	BlockSize      int     `yaml:"block-size"`
	CooldownMs     int     `yaml:"cooldown-ms"`
	Verbose        bool    `yaml:"verbose"`
}

func DefaultMotionConfig() MotionConfig {
	return MotionConfig{
		Threshold:      25,
		MinSizePercent: 1.0,
		MaxSizePercent: 30.0,
		BlockSize:      16,
		CooldownMs:     2000,
	}
}

func (conf *MotionConfig) Validate() error {
	if conf.BlockSize < 1 {
		return errors.New("block-size must be at least 1")
	}
	if conf.MinSizePercent < 0 || conf.MaxSizePercent > 100 {
		return errors.New("size bounds should be in range 0 - 100")
	}
	if conf.MinSizePercent > conf.MaxSizePercent {
		return errors.New("min-size-percent is larger than max-size-percent")
	}
	if conf.CooldownMs < 0 {
		return errors.New("cooldown-ms should not be negative")
	}
	return nil
}

func (conf *MotionConfig) cooldown() time.Duration {
	return time.Duration(conf.CooldownMs) * time.Millisecond
}
