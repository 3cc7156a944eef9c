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

// MotionResult is the outcome of one detection cycle, returned by
// value. X/Y/Width/Height describe the changed region in pixel
// coordinates; on the JPEG path they are a centred approximation since
// the real location is unknown.
//
// SizePercent is the bounding box area as a percent of the frame area
// on the grayscale path. On the JPEG path it carries the percent
// deviation of the compressed frame size from the rolling average.
type MotionResult struct {
	Detected      bool
	SizeFiltered  bool
	X             int
	Y             int
	Width         int
	Height        int
	SizePercent   float64
	ChangedBlocks int
	TotalBlocks   int
	Confidence    float64
}
