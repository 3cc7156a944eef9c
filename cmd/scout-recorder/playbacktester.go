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
	"io"
	"log"
	"os"

	"github.com/scout-project/scout-recorder/frames"
	"github.com/scout-project/scout-recorder/motion"
)

// TallyingListener counts detection events while a recorded frame
// stream plays back through the engine.
type TallyingListener struct {
	verbose       bool
	frameCount    int
	detectedCount int
	filteredCount int
	allocFailures int
	lastDetection int
}

func (l *TallyingListener) MotionDetected(result motion.MotionResult) {
	if l.verbose {
		log.Printf("%d: motion detected, box (%d,%d) %dx%d, size %.1f%%",
			l.frameCount, result.X, result.Y, result.Width, result.Height, result.SizePercent)
	}
	l.detectedCount++
	l.lastDetection = l.frameCount
}

func (l *TallyingListener) MotionFiltered(result motion.MotionResult) {
	if l.verbose {
		log.Printf("%d: motion filtered, size %.1f%%", l.frameCount, result.SizePercent)
	}
	l.filteredCount++
}

func (l *TallyingListener) AllocationFailed(size int) {
	l.allocFailures++
}

type PlaybackTester struct {
	config *Config
}

func NewPlaybackTester(conf *Config) *PlaybackTester {
	return &PlaybackTester{config: conf}
}

// Detect plays a recorded frame stream file through the detection
// pipeline and tallies the outcome per frame.
func (pt *PlaybackTester) Detect(filename string) *TallyingListener {
	listener := &TallyingListener{verbose: pt.config.Motion.Verbose}

	processor := motion.NewMotionProcessor(pt.config.Motion, listener, nil)

	file, err := os.Open(filename)
	if err != nil {
		log.Printf("could not open file: %v", err)
		return listener
	}
	defer file.Close()

	frame := new(frames.Frame)
	for {
		if err := frames.ReadFrame(file, frame); err != nil {
			if err != io.EOF {
				log.Printf("error reading frame stream: %v", err)
			}
			return listener
		}
		processor.Detect(frame)
		listener.frameCount++
	}
}
