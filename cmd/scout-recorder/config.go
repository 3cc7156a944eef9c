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

package main

import (
	"errors"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"

	"github.com/scout-project/scout-recorder/motion"
	"github.com/scout-project/scout-recorder/throttle"
)

type Config struct {
	DeviceName string
	FrameInput string
	PowerPin   string
	FastPoolMB int
	Motion     motion.MotionConfig
	Throttler  throttle.ThrottlerConfig
	Turret     TurretConfig
}

func (conf *Config) Validate() error {
	if conf.FrameInput == "" {
		return errors.New("frame-input socket path is required")
	}
	if conf.FastPoolMB < 0 {
		return errors.New("fast-pool-mb should not be negative")
	}
	if err := conf.Motion.Validate(); err != nil {
		return err
	}
	if conf.Throttler.ApplyThrottling && conf.Throttler.MinRefill <= 0 {
		return errors.New("min-refill should be positive when throttling is applied")
	}
	if conf.Turret.Active && len(conf.Turret.PID) != 3 {
		return errors.New("turret pid needs exactly three terms")
	}
	return nil
}

type ServoConfig struct {
	Active bool    `yaml:"active"`
	Pin    string  `yaml:"pin"`
	MinAng float64 `yaml:"min-ang"`
	MaxAng float64 `yaml:"max-ang"`
}

type TurretConfig struct {
	Active bool        `yaml:"active"`
	PID    []float64   `yaml:"pid"`
	ServoX ServoConfig `yaml:"servo-x"`
	ServoY ServoConfig `yaml:"servo-y"`
}

type rawConfig struct {
	DeviceName string                   `yaml:"device-name"`
	FrameInput string                   `yaml:"frame-input"`
	PowerPin   string                   `yaml:"power-pin"`
	FastPoolMB int                      `yaml:"fast-pool-mb"`
	Motion     motion.MotionConfig      `yaml:"motion"`
	Throttler  throttle.ThrottlerConfig `yaml:"throttler"`
	Turret     TurretConfig             `yaml:"turret"`
}

func defaultConfig() rawConfig {
	return rawConfig{
		DeviceName: "scout",
		FrameInput: "/var/run/scout-frames",
		PowerPin:   "GPIO23",
		FastPoolMB: 8,
		Motion:     motion.DefaultMotionConfig(),
		Throttler:  throttle.DefaultThrottlerConfig(),
	}
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	raw := defaultConfig()
	if err := yaml.Unmarshal(buf, &raw); err != nil {
		return nil, err
	}

	conf := &Config{
		DeviceName: raw.DeviceName,
		FrameInput: raw.FrameInput,
		PowerPin:   raw.PowerPin,
		FastPoolMB: raw.FastPoolMB,
		Motion:     raw.Motion,
		Throttler:  raw.Throttler,
		Turret:     raw.Turret,
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
