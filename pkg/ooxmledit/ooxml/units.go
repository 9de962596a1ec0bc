package ooxml

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

// EMUPerPixel is the number of EMUs per pixel at 96 DPI.
// 914400 / 96 = 9525.
const EMUPerPixel = 9525

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// EMUToInches converts EMU to inches. Drawings in word-processing documents
// report their extent in inches.
func EMUToInches(emu int64) float64 {
	return float64(emu) / EMUPerInch
}
