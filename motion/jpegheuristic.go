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
	"math"

	"github.com/scout-project/scout-recorder/frames"
)

// A compressed frame's byte length shifts with scene content, so a
// large swing in JPEG size is a workable proxy for motion when no
// decoded pixels are available. Thresholds are percent deviation from
// the rolling average of recent frame sizes.
const (
	jpegHistorySize = 5
	jpegWarmup      = 3 // non-zero history entries needed for a verdict

	jpegDetectPercent = 10.0 // above this, flag motion
	jpegNoisePercent  = 3.0  // below this, filter as noise
	jpegCutPercent    = 50.0 // above this, filter as a full scene cut

	jpegConfidenceScale = 30.0
)

// jpegHeuristic judges scene change from compressed frame sizes alone.
// It holds a fixed ring of the last few byte lengths; the cursor wraps
// so the oldest entry is overwritten.
type jpegHeuristic struct {
	history [jpegHistorySize]int
	cursor  int
}

func (h *jpegHeuristic) reset() {
	*h = jpegHeuristic{}
}

// compare records the frame's length and judges it against the rolling
// average. The current length is part of the average it is judged
// against; a true step change is partly absorbed into its own
// baseline. That damping is relied on by the tuned thresholds, so keep
// the ordering as is.
func (h *jpegHeuristic) compare(frame *frames.Frame) MotionResult {
	var result MotionResult

	h.history[h.cursor] = len(frame.Pix)
	h.cursor = (h.cursor + 1) % jpegHistorySize

	sum := 0
	valid := 0
	for _, n := range h.history {
		if n > 0 {
			sum += n
			valid++
		}
	}
	if valid < jpegWarmup {
		return result
	}
	average := float64(sum) / float64(valid)

	deviation := math.Abs(float64(len(frame.Pix))-average) / average * 100
	result.SizePercent = deviation

	if deviation > jpegDetectPercent {
		result.Detected = true
		result.Confidence = minFloat(1, deviation/jpegConfidenceScale)

		// The changed region's location is genuinely unknown here;
		// report the centred half-frame as an approximation.
		result.X = int(frame.Width) / 4
		result.Y = int(frame.Height) / 4
		result.Width = int(frame.Width) / 2
		result.Height = int(frame.Height) / 2
	}

	if deviation < jpegNoisePercent {
		result.SizeFiltered = true
		result.Detected = false
	} else if deviation > jpegCutPercent {
		result.SizeFiltered = true
		result.Detected = false
	}

	return result
}
