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

package frames

// PixelFormat identifies how a frame's payload is encoded.
type PixelFormat uint8

const (
	// Grayscale frames are one byte per pixel, row-major,
	// exactly Width*Height bytes.
	Grayscale PixelFormat = iota

	// JPEG frames carry a compressed payload of arbitrary length.
	JPEG
)

// Frame is a single captured image as delivered by the camera.
type Frame struct {
	Format PixelFormat
	Width  uint16
	Height uint16
	Pix    []byte
}

// PixelCount returns the number of pixels the frame's dimensions describe.
func (f *Frame) PixelCount() int {
	return int(f.Width) * int(f.Height)
}
