// Package gcashocr extracts the paid amount and reference number from GCash
// proof-of-payment screenshots so staff see whether a submitted proof matches
// the request before confirming it.
package gcashocr

import (
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Result is what one OCR inspection of a proof image yields.
type Result struct {
	AmountCentavos int64
	ReferenceNo    string
	Confidence     float64
	Raw            string // the raw substring the amount came from
}

// Inspect runs preprocessing plus two Tesseract passes over a proof image and
// extracts the transfer amount and GCash reference number. Returns ErrNoAmount
// (wrapped) when the image yields no plausible amount; callers treat that as
// "needs manual review", not as a failure of the upload.
func Inspect(path string) (Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open image: %w", err)
	}
	prepared := prepareForOCR(img)

	// pass 1: unconstrained text, for keywords and the reference line
	fullText, err := recognize(prepared, "")
	if err != nil {
		return Result{}, fmt.Errorf("ocr pass: %w", err)
	}
	// pass 2: binarized and digit-focused, for the amount itself
	digitText, err := recognize(binarize(prepared, 160), "0123456789PHPhp₱.,: ")
	if err != nil {
		// the first pass may still carry enough; log and continue
		log.Printf("gcashocr: digit pass failed for %s: %v", path, err)
		digitText = ""
	}

	fullText = normalizeText(fullText)
	digitText = normalizeText(digitText)
	combined := fullText + " " + digitText

	cands := FindAmountCandidates(combined)
	if len(cands) == 0 {
		log.Printf("gcashocr: no candidates in %s text=%q", path, snippet(combined, 140))
		return Result{ReferenceNo: FindReference(fullText)}, ErrNoAmount
	}
	amt, raw, ok := BestAmountFromCandidates(cands)
	if !ok {
		return Result{ReferenceNo: FindReference(fullText)}, ErrNoAmount
	}

	res := Result{
		AmountCentavos: amt,
		ReferenceNo:    FindReference(fullText),
		Raw:            raw,
		Confidence:     confidenceFor(raw, combined),
	}
	log.Printf("gcashocr: %s amount=%d ref=%s conf=%.2f raw=%q", path, res.AmountCentavos, res.ReferenceNo, res.Confidence, raw)
	return res, nil
}

// confidenceFor is a proxy, not a calibrated probability: currency markers and
// decimal centavos push it up, a bare digit run stays low.
func confidenceFor(raw, text string) float64 {
	conf := float64(len(raw)) / float64(len(text)+1)
	low := strings.ToLower(raw)
	if strings.Contains(low, "php") || strings.Contains(low, "₱") || strings.Contains(raw, ".") {
		if conf < 0.85 {
			conf = 0.85
		}
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// recognize saves the prepared image to a temp file and runs Tesseract over
// it, optionally restricted to a character whitelist.
func recognize(img image.Image, whitelist string) (string, error) {
	tmpFile, err := os.CreateTemp("", "gcashocr-*.png")
	if err != nil {
		return "", fmt.Errorf("temp file: %w", err)
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmp)
	if err := imaging.Save(img, tmp); err != nil {
		return "", fmt.Errorf("save temp image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage("eng")
	if whitelist != "" {
		_ = client.SetWhitelist(whitelist)
	}
	if err := client.SetImage(tmp); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr error: %w", err)
	}
	return text, nil
}
