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

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Wire format used on the capture socket. Little-endian, matching the
// camera SoC:
//
//	offset 0  format   uint8
//	offset 1  reserved uint8
//	offset 2  width    uint16
//	offset 4  height   uint16
//	offset 6  length   uint32
//	offset 10 payload  (length bytes)
const headerLen = 10

// MaxFrameBytes caps the payload length accepted from the wire.
const MaxFrameBytes = 4 << 20

// WriteFrame writes a frame header and payload to w.
func WriteFrame(w io.Writer, f *Frame) error {
	var header [headerLen]byte
	header[0] = byte(f.Format)
	binary.LittleEndian.PutUint16(header[2:], f.Width)
	binary.LittleEndian.PutUint16(header[4:], f.Height)
	binary.LittleEndian.PutUint32(header[6:], uint32(len(f.Pix)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(f.Pix)
	return err
}

// ReadFrame reads the next frame from r into f, reusing f's payload
// buffer when it is large enough.
func ReadFrame(r io.Reader, f *Frame) error {
	var header [headerLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return err
	}

	length := binary.LittleEndian.Uint32(header[6:])
	if length > MaxFrameBytes {
		return fmt.Errorf("frame payload too large: %d bytes", length)
	}

	f.Format = PixelFormat(header[0])
	f.Width = binary.LittleEndian.Uint16(header[2:])
	f.Height = binary.LittleEndian.Uint16(header[4:])

	if cap(f.Pix) < int(length) {
		f.Pix = make([]byte, length)
	} else {
		f.Pix = f.Pix[:length]
	}
	_, err := io.ReadFull(r, f.Pix)
	return err
}
