// proofwatch scans the payment proof directory and backfills OCR results for
// any proof the upload-time inspection missed (tesseract hiccup, server
// restart mid-upload, files restored from backup). With -watch it keeps
// running and picks up new files as they land.
//
// Usage:
//
//	proofwatch -dir uploads/proofs [-watch] [-workers N] [-dry-run]
package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bgyadmin/models"
	"bgyadmin/pkg/gcashocr"
)

var (
	db     *gorm.DB
	logger *zap.Logger
	dryRun bool
)

func main() {
	dirFlag := flag.String("dir", filepath.Join("uploads", "proofs"), "directory holding payment proof images")
	watch := flag.Bool("watch", false, "keep watching the directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	flag.BoolVar(&dryRun, "dry-run", false, "inspect images but write nothing to the database")
	flag.Parse()

	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db = mustInitDBFromEnv()

	files := listImageFiles(*dirFlag)
	logger.Info("scanning proof directory",
		zap.String("dir", *dirFlag),
		zap.Int("files", len(files)),
		zap.Int("workers", effectiveWorkers(*workers)),
	)
	if *watch {
		watchCh := make(chan string, 256)
		go func() {
			if err := watchDirectory(*dirFlag, watchCh); err != nil {
				logger.Fatal("watch failed", zap.Error(err))
			}
		}()
		runWorkerPool(*dirFlag, files, effectiveWorkers(*workers), watchCh)
		return
	}
	runWorkerPool(*dirFlag, files, effectiveWorkers(*workers), nil)
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal("DB_DSN must be set in environment")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	return gdb
}

func effectiveWorkers(w int) int {
	if w <= 0 {
		return runtime.NumCPU()
	}
	return w
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !isSupportedExt(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

func isSupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

// watchDirectory relays stable new files into fileCh. Events are debounced so
// a file still being written is not inspected half-transferred.
func watchDirectory(dir string, fileCh chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watching", zap.String("dir", dir))

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				close(fileCh)
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				name := filepath.Base(ev.Name)
				if isSupportedExt(name) {
					pending[name] = time.Now()
				}
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					fileCh <- name
					delete(pending, name)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				close(fileCh)
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

func runWorkerPool(dir string, initial []string, workers int, watchCh <-chan string) {
	fileCh := make(chan string, 1024)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				processProofFile(dir, name)
			}
		}()
	}
	go func() {
		for _, f := range initial {
			fileCh <- f
		}
		if watchCh == nil {
			close(fileCh)
			return
		}
		for n := range watchCh {
			fileCh <- n
		}
		close(fileCh)
	}()
	wg.Wait()
}

// processProofFile re-runs OCR for one stored proof and writes the detection
// back onto its row. Idempotent: already-checked proofs are skipped.
func processProofFile(dir, name string) {
	var proof models.PaymentProof
	if err := db.Where("file_name = ?", name).First(&proof).Error; err != nil {
		// a file with no proof row is not ours to touch
		logger.Warn("orphan proof file", zap.String("file", name))
		return
	}
	if proof.Checked {
		return
	}

	res, err := gcashocr.Inspect(filepath.Join(dir, name))
	checked := true
	switch {
	case err == nil:
	case errors.Is(err, gcashocr.ErrNoAmount):
		// ran fine, just nothing plausible in the image
	default:
		logger.Warn("ocr failed, will retry next scan", zap.String("file", name), zap.Error(err))
		return
	}

	var req models.DocumentRequest
	matches := false
	if dbErr := db.First(&req, proof.RequestID).Error; dbErr == nil {
		matches = res.AmountCentavos == req.AmountCentavos && res.AmountCentavos > 0
	}
	logger.Info("proof inspected",
		zap.String("file", name),
		zap.Uint("request_id", proof.RequestID),
		zap.Int64("detected_centavos", res.AmountCentavos),
		zap.String("detected_reference", res.ReferenceNo),
		zap.Float64("confidence", res.Confidence),
		zap.Bool("amount_matches", matches),
	)
	if dryRun {
		return
	}
	updates := map[string]interface{}{
		"checked":            checked,
		"detected_centavos":  res.AmountCentavos,
		"detected_reference": res.ReferenceNo,
		"ocr_confidence":     res.Confidence,
	}
	if err := db.Model(&models.PaymentProof{}).Where("id = ?", proof.ID).Updates(updates).Error; err != nil {
		logger.Error("proof update failed", zap.Uint("proof_id", proof.ID), zap.Error(err))
	}
}
