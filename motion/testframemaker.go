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
	"github.com/scout-project/scout-recorder/frames"
)

// TestFrameMaker builds synthetic frames and plays them through a
// MotionProcessor. Used by the package tests and the playback tooling.
type TestFrameMaker struct {
	processor  *MotionProcessor
	width      int
	height     int
	Background byte
	Results    []MotionResult
}

func MakeTestFrameMaker(processor *MotionProcessor, width, height int) *TestFrameMaker {
	return &TestFrameMaker{
		processor: processor,
		width:     width,
		height:    height,
	}
}

// MakeFrame returns a grayscale frame filled with the background value.
func (tfm *TestFrameMaker) MakeFrame() *frames.Frame {
	pix := make([]byte, tfm.width*tfm.height)
	if tfm.Background != 0 {
		for i := range pix {
			pix[i] = tfm.Background
		}
	}
	return &frames.Frame{
		Format: frames.Grayscale,
		Width:  uint16(tfm.width),
		Height: uint16(tfm.height),
		Pix:    pix,
	}
}

// MakeFrameWithBlock returns a background frame with one whole
// comparison block, in block grid coordinates, set to value.
func (tfm *TestFrameMaker) MakeFrameWithBlock(blockX, blockY int, value byte) *frames.Frame {
	frame := tfm.MakeFrame()
	size := tfm.processor.Config().BlockSize
	for y := blockY * size; y < (blockY+1)*size; y++ {
		for x := blockX * size; x < (blockX+1)*size; x++ {
			frame.Pix[y*tfm.width+x] = value
		}
	}
	return frame
}

// PlayFrame submits a frame and records the result.
func (tfm *TestFrameMaker) PlayFrame(frame *frames.Frame) MotionResult {
	result := tfm.processor.Detect(frame)
	tfm.Results = append(tfm.Results, result)
	return result
}

// PlayBackgroundFrames submits n identical background frames.
func (tfm *TestFrameMaker) PlayBackgroundFrames(n int) *TestFrameMaker {
	for i := 0; i < n; i++ {
		tfm.PlayFrame(tfm.MakeFrame())
	}
	return tfm
}

// PlayJpegFrame submits an encoded frame with the given byte length.
func (tfm *TestFrameMaker) PlayJpegFrame(length int) MotionResult {
	return tfm.PlayFrame(&frames.Frame{
		Format: frames.JPEG,
		Width:  uint16(tfm.width),
		Height: uint16(tfm.height),
		Pix:    make([]byte, length),
	})
}

// LastResult returns the most recent detection result.
func (tfm *TestFrameMaker) LastResult() MotionResult {
	return tfm.Results[len(tfm.Results)-1]
}
