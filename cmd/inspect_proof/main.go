// inspect_proof runs the GCash proof OCR over a single image and prints what
// the server would record. Debugging aid for mis-read proofs.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"bgyadmin/pkg/gcashocr"
	"bgyadmin/pkg/lifecycle"
)

func main() {
	f := flag.String("file", "", "proof image to inspect")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}
	res, err := gcashocr.Inspect(*f)
	if errors.Is(err, gcashocr.ErrNoAmount) {
		fmt.Printf("no plausible amount found (reference=%q)\n", res.ReferenceNo)
		return
	}
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	fmt.Printf("amount=%s reference=%q conf=%.4f raw=%q\n",
		lifecycle.FormatAmount(res.AmountCentavos), res.ReferenceNo, res.Confidence, res.Raw)
}
