package gcashocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// prepareForOCR grayscales and upscales small screenshots; Tesseract wants
// character heights well above what a phone-resolution GCash receipt gives.
func prepareForOCR(img image.Image) image.Image {
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < 800 {
		return imaging.Resize(gray, 0, 1200, imaging.Lanczos)
	}
	return gray
}

// binarize performs a simple global threshold on a grayscale image. The GCash
// UI is dark-on-white with a blue header, so a fixed threshold separates the
// amount line cleanly once the image is grayscaled.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}
