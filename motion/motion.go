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

// The spatial unit of comparison is a blockSize x blockSize tile.
// Frames are compared tile by tile against the stored baseline, and
// tiles whose mean absolute pixel difference exceeds the threshold are
// aggregated into a bounding rectangle.
//
// confidenceGain amplifies small block coverage so that roughly 20%
// coverage already saturates confidence at 1.
const confidenceGain = 5.0

func newBlockDetector(store *FrameStore) *blockDetector {
	return &blockDetector{store: store}
}

type blockDetector struct {
	store *FrameStore
}

// compare runs one block-diff cycle of the current frame against the
// stored baseline, then overwrites the baseline with the current frame.
// The caller guarantees the store holds a baseline with the frame's
// dimensions.
//
// Pixels beyond the last full block at the right and bottom edges take
// no part in the comparison.
func (d *blockDetector) compare(frame *frames.Frame, conf *MotionConfig) MotionResult {
	width := int(frame.Width)
	height := int(frame.Height)
	prev := d.store.Pix()

	blockSize := conf.BlockSize
	blocksX := width / blockSize
	blocksY := height / blockSize
	pixelsPerBlock := blockSize * blockSize
	threshold := int(conf.Threshold)

	result := MotionResult{TotalBlocks: blocksX * blocksY}

	minX, minY := blocksX, blocksY
	maxX, maxY := 0, 0

	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			sum := 0
			for py := 0; py < blockSize; py++ {
				row := (by*blockSize+py)*width + bx*blockSize
				for px := 0; px < blockSize; px++ {
					sum += absDiff(frame.Pix[row+px], prev[row+px])
				}
			}

			if sum/pixelsPerBlock > threshold {
				result.ChangedBlocks++
				if bx < minX {
					minX = bx
				}
				if by < minY {
					minY = by
				}
				if bx > maxX {
					maxX = bx
				}
				if by > maxY {
					maxY = by
				}
			}
		}
	}

	d.store.Store(frame.Pix)

	if result.ChangedBlocks == 0 {
		return result
	}

	result.Detected = true
	result.X = minX * blockSize
	result.Y = minY * blockSize
	result.Width = (maxX - minX + 1) * blockSize
	result.Height = (maxY - minY + 1) * blockSize

	boxArea := float64(result.Width * result.Height)
	frameArea := float64(width * height)
	result.SizePercent = boxArea / frameArea * 100

	blockRatio := float64(result.ChangedBlocks) / float64(result.TotalBlocks)
	result.Confidence = minFloat(1, blockRatio*confidenceGain)

	return result
}

// applySizeFilter reclassifies a detection whose area falls outside
// the configured bounds. The measured geometry and confidence are kept
// for diagnostic visibility.
func applySizeFilter(result *MotionResult, conf *MotionConfig) {
	if !result.Detected {
		return
	}
	if result.SizePercent < conf.MinSizePercent || result.SizePercent > conf.MaxSizePercent {
		result.SizeFiltered = true
		result.Detected = false
	}
}

func absDiff(a, b byte) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
