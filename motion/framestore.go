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
	"github.com/scout-project/scout-recorder/pool"
)

func NewFrameStore(alloc pool.Pool) *FrameStore {
	return &FrameStore{alloc: alloc}
}

// FrameStore owns the single retained baseline frame buffer. The
// buffer is reallocated whenever the incoming dimensions change, never
// resized in place.
type FrameStore struct {
	alloc  pool.Pool
	buf    []byte
	width  uint16
	height uint16
}

// Ensure makes the store hold a width*height buffer, reusing the
// current one when the dimensions match. fresh reports that a new
// buffer was allocated, meaning no baseline exists yet. On allocation
// failure the stored dimensions are zeroed so the next call starts
// over.
func (fs *FrameStore) Ensure(width, height uint16) (fresh bool, err error) {
	if fs.buf != nil && fs.width == width && fs.height == height {
		return false, nil
	}

	fs.Release()
	buf, err := fs.alloc.Alloc(int(width) * int(height))
	if err != nil {
		return false, err
	}

	fs.buf = buf
	fs.width = width
	fs.height = height
	return true, nil
}

// Store copies a full frame into the buffer. The caller guarantees pix
// matches the stored dimensions.
func (fs *FrameStore) Store(pix []byte) {
	copy(fs.buf, pix)
}

// Pix returns the baseline buffer, or nil when none is held.
func (fs *FrameStore) Pix() []byte {
	return fs.buf
}

// Release frees the buffer and zeroes the dimensions. Safe to call
// repeatedly.
func (fs *FrameStore) Release() {
	if fs.buf != nil {
		fs.alloc.Free(fs.buf)
		fs.buf = nil
	}
	fs.width = 0
	fs.height = 0
}
