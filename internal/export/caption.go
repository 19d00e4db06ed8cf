/*
 * Copyright (c) 2025 The Concentric Authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// captionFace is a fixed bitmap face so raster captions are identical on
// every platform.
var captionFace font.Face = basicfont.Face7x13

// measureCaption returns the pixel width and line height of s.
func measureCaption(s string) (w, h int) {
	d := &font.Drawer{Face: captionFace}
	m := captionFace.Metrics()
	return d.MeasureString(s).Ceil(), (m.Ascent + m.Descent).Ceil()
}

// drawCaption draws s with its baseline at (x, y), shifted left when it
// would run off the right edge.
func drawCaption(img *image.RGBA, s string, x, y int, col color.RGBA) {
	w, _ := measureCaption(s)
	if over := x + w - img.Bounds().Dx(); over > 0 {
		x = max(0, x-over)
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: captionFace,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
