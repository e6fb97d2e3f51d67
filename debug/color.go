package debug

import "unicode/utf16"

// BasicPalette holds the ANSI colors used on terminals without 256-color
// support.
var BasicPalette = []int{6, 2, 3, 4, 5, 1}

// ExtendedPalette holds the 256-color codes used when extended colors are on.
var ExtendedPalette = []int{
	20, 21, 26, 27, 32, 33, 38, 39, 40, 41, 42, 43, 44, 45, 56, 57, 62, 63,
	68, 69, 74, 75, 76, 77, 78, 79, 80, 81, 92, 93, 98, 99, 112, 113, 128,
	129, 134, 135, 148, 149, 160, 161, 162, 163, 164, 165, 166, 167, 168, 169,
	170, 171, 172, 173, 178, 179, 184, 185, 196, 197, 198, 199, 200, 201, 202,
	203, 204, 205, 206, 207, 208, 209, 214, 215, 220, 221,
}

// ColorIndex returns the palette position for name given a palette of size n.
// The hash runs over UTF-16 code units with 32-bit wraparound, so a name gets
// the same color here as in other implementations of this scheme.
func ColorIndex(name string, n int) int {
	if n <= 0 {
		return 0
	}
	var hash int32
	for _, unit := range utf16.Encode([]rune(name)) {
		hash = (hash << 5) - hash + int32(unit)
	}
	h := int64(hash)
	if h < 0 {
		h = -h
	}
	return int(h % int64(n))
}

// SelectColor picks the color for name from palette.
func SelectColor(name string, palette []int) int {
	if len(palette) == 0 {
		return 0
	}
	return palette[ColorIndex(name, len(palette))]
}
