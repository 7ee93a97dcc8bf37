package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bgyadmin/models"
	"bgyadmin/pkg/gcashocr"
	"bgyadmin/pkg/lifecycle"
)

// documentCatalogHandler lists the requestable document types with their fees.
func documentCatalogHandler(c *gin.Context) {
	out := make([]gin.H, 0, len(lifecycle.DocumentTypes()))
	for _, t := range lifecycle.DocumentTypes() {
		amt, _ := lifecycle.PriceFor(t)
		out = append(out, gin.H{
			"document_type": string(t),
			"amount":        lifecycle.FormatAmount(amt),
			"free":          amt == 0,
		})
	}
	c.JSON(http.StatusOK, out)
}

// createRequestHandler files a new document request. The reference number is
// allocated inside the same transaction that inserts the row: the per-day
// counter is locked FOR UPDATE, so concurrent submissions in one barangay can
// never mint the same number.
func createRequestHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	actor := actorOf(user)

	var req struct {
		DocumentType string `json:"document_type" binding:"required"`
		Purpose      string `json:"purpose"`
		ResidentID   uint   `json:"resident_id"` // staff may file on behalf of a walk-in resident
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	docType, err := lifecycle.ParseDocumentType(req.DocumentType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	residentID := actor.ResidentID
	if (actor.Role.Staff() || actor.SuperAdmin) && req.ResidentID != 0 {
		residentID = req.ResidentID
	}
	if residentID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resident profile required"})
		return
	}
	var res models.Resident
	if err := db.Where("id = ? AND barangay_id = ?", residentID, user.BarangayID).First(&res).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resident not found"})
		return
	}
	var bgy models.Barangay
	if err := db.First(&bgy, user.BarangayID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "barangay not found"})
		return
	}

	amount, _ := lifecycle.PriceFor(docType)
	now := time.Now()
	request := models.DocumentRequest{
		BarangayID:     user.BarangayID,
		ResidentID:     res.ID,
		RequesterName:  res.DisplayName(),
		DocumentType:   string(docType),
		Purpose:        req.Purpose,
		AmountCentavos: amount,
		Status:         string(lifecycle.StatusPending),
		SubmittedAt:    now,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		day := now.Format("060102")
		// insert-if-absent then lock; two racers both land on the same locked row
		seed := models.RequestCounter{BarangayID: user.BarangayID, Day: day}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		var counter models.RequestCounter
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("barangay_id = ? AND day = ?", user.BarangayID, day).
			First(&counter).Error; err != nil {
			return err
		}
		counter.Seq++
		if err := tx.Model(&models.RequestCounter{}).Where("id = ?", counter.ID).Update("seq", counter.Seq).Error; err != nil {
			return err
		}
		request.ReferenceNo = lifecycle.FormatReference(bgy.TrackingPrefix, now, counter.Seq)
		return tx.Create(&request).Error
	})
	if err != nil {
		logger.Error("request create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	go notifier.NewRequest(request.ReferenceNo, request.DocumentType, request.RequesterName)
	c.JSON(http.StatusOK, gin.H{
		"id":           request.ID,
		"reference_no": request.ReferenceNo,
		"amount":       lifecycle.FormatAmount(request.AmountCentavos),
		"status":       request.Status,
	})
}

// listRequestsHandler lists barangay requests for staff, own requests for a
// resident. Optional ?status= filter.
func listRequestsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	actor := actorOf(user)
	q := db.Where("barangay_id = ?", user.BarangayID)
	if !actor.Role.Staff() && !actor.SuperAdmin {
		q = q.Where("resident_id = ?", actor.ResidentID)
	}
	if s := c.Query("status"); s != "" {
		status, err := lifecycle.ParseStatus(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		q = q.Where("status = ?", string(status))
	}
	var items []models.DocumentRequest
	if err := q.Order("submitted_at desc").Limit(200).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(items))
	for _, r := range items {
		out = append(out, requestJSON(r))
	}
	c.JSON(http.StatusOK, out)
}

func getRequestHandler(c *gin.Context) {
	user, reqRow, ok := loadVisibleRequest(c)
	if !ok {
		return
	}
	resp := requestJSON(*reqRow)
	// staff also see the proof inspection results
	if actorOf(user).Role.Staff() || user.SuperAdmin {
		var proofs []models.PaymentProof
		db.Where("request_id = ?", reqRow.ID).Order("id").Find(&proofs)
		pr := make([]gin.H, 0, len(proofs))
		for _, p := range proofs {
			pr = append(pr, gin.H{
				"id":                 p.ID,
				"file_name":          p.FileName,
				"checked":            p.Checked,
				"detected_amount":    lifecycle.FormatAmount(p.DetectedCentavos),
				"detected_reference": p.DetectedReference,
				"confidence":         p.OCRConfidence,
				"amount_matches":     p.Checked && p.DetectedCentavos == reqRow.AmountCentavos,
			})
		}
		resp["proofs"] = pr
	}
	c.JSON(http.StatusOK, resp)
}

// trackRequestHandler is the public lookup by reference number. It exposes
// status and dates only, no names or amounts.
func trackRequestHandler(c *gin.Context) {
	ref := strings.ToUpper(strings.TrimSpace(c.Param("ref")))
	if _, _, _, err := lifecycle.ParseReference(ref); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed reference number"})
		return
	}
	var req models.DocumentRequest
	if err := db.Where("reference_no = ?", ref).First(&req).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "reference number not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reference_no":  req.ReferenceNo,
		"document_type": req.DocumentType,
		"status":        req.Status,
		"submitted_at":  req.SubmittedAt,
		"released_at":   req.ReleasedAt,
	})
}

// transitionRequestHandler drives a request through the state machine. All
// legality checks live in pkg/lifecycle; this handler only loads, applies and
// persists.
func transitionRequestHandler(c *gin.Context) {
	user, reqRow, ok := loadVisibleRequest(c)
	if !ok {
		return
	}
	actor := actorOf(user)

	var body struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, err := lifecycle.ParseStatus(body.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lcReq := lifecycleRequestOf(*reqRow)
	var snap *lifecycle.ResidentSnapshot
	if target == lifecycle.StatusApproved && lcReq.Snapshot == nil {
		var res models.Resident
		if err := db.First(&res, reqRow.ResidentID).Error; err == nil {
			snap = &lifecycle.ResidentSnapshot{
				FirstName: res.FirstName,
				LastName:  res.LastName,
				Address:   res.AddressLine(),
				Birthdate: res.Birthdate,
			}
		}
		// resident hard-deleted before approval: Apply rejects below
	}

	out, err := lifecycle.Apply(lcReq, target, actor, time.Now(), snap, nil)
	if err != nil {
		c.JSON(transitionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"status":      string(out.Status),
		"approved_at": out.ApprovedAt,
		"released_at": out.ReleasedAt,
	}
	if target == lifecycle.StatusRejected {
		updates["rejected_reason"] = body.Reason
	}
	if out.Snapshot != nil {
		b, _ := json.Marshal(out.Snapshot)
		updates["resident_snapshot"] = string(b)
	}
	if out.Payment != nil {
		b, _ := json.Marshal(out.Payment)
		updates["payment_details"] = string(b)
	}
	if err := db.Model(&models.DocumentRequest{}).Where("id = ?", reqRow.ID).Updates(updates).Error; err != nil {
		logger.Error("transition persist failed", zap.Uint("request_id", reqRow.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	logger.Info("request transitioned",
		zap.String("reference", reqRow.ReferenceNo),
		zap.String("from", reqRow.Status),
		zap.String("to", string(out.Status)),
		zap.Uint("actor", user.ID),
	)
	go notifier.StatusChanged(reqRow.ReferenceNo, reqRow.DocumentType, lcReq.Status, out.Status, user.Name)
	c.JSON(http.StatusOK, gin.H{"status": string(out.Status)})
}

// submitPaymentHandler takes the GCash proof image plus transaction details
// and moves the request to Payment Submitted. The transition is validated
// before the file is written, so a denied submission leaves nothing on disk.
func submitPaymentHandler(c *gin.Context) {
	user, reqRow, ok := loadVisibleRequest(c)
	if !ok {
		return
	}
	actor := actorOf(user)

	file, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proof image missing"})
		return
	}
	if file.Size > 10*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 10MB)"})
		return
	}
	txnID := strings.TrimSpace(c.PostForm("transaction_id"))
	if txnID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id required"})
		return
	}
	paidAt := time.Now()
	if v := c.PostForm("payment_date"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			paidAt = t
		}
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	storePath := filepath.Join(proofDir(), name)
	pay := &lifecycle.PaymentDetails{
		Method:        "GCash",
		TransactionID: txnID,
		PaidAt:        paidAt,
		ProofPath:     storePath,
	}
	out, err := lifecycle.Apply(lifecycleRequestOf(*reqRow), lifecycle.StatusPaymentSubmitted, actor, time.Now(), nil, pay)
	if err != nil {
		c.JSON(transitionErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	if err := c.SaveUploadedFile(file, storePath); err != nil {
		logger.Error("proof save failed", zap.String("path", storePath), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	normalizeProofImage(storePath)

	proof := models.PaymentProof{
		RequestID:   reqRow.ID,
		FileName:    name,
		StorePath:   storePath,
		ContentType: file.Header.Get("Content-Type"),
	}
	ocrRes, ocrErr := gcashocr.Inspect(storePath)
	switch {
	case ocrErr == nil:
		proof.Checked = true
		proof.DetectedCentavos = ocrRes.AmountCentavos
		proof.DetectedReference = ocrRes.ReferenceNo
		proof.OCRConfidence = ocrRes.Confidence
	case errors.Is(ocrErr, gcashocr.ErrNoAmount):
		proof.Checked = true
		proof.DetectedReference = ocrRes.ReferenceNo
	default:
		// leave Checked false; process/proofwatch retries it
		logger.Warn("proof ocr failed", zap.String("file", name), zap.Error(ocrErr))
	}
	if err := db.Create(&proof).Error; err != nil {
		logger.Error("proof record failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}

	payJSON, _ := json.Marshal(out.Payment)
	updates := map[string]interface{}{
		"status":          string(out.Status),
		"payment_details": string(payJSON),
	}
	if err := db.Model(&models.DocumentRequest{}).Where("id = ?", reqRow.ID).Updates(updates).Error; err != nil {
		logger.Error("payment persist failed", zap.Uint("request_id", reqRow.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	go notifier.StatusChanged(reqRow.ReferenceNo, reqRow.DocumentType, lifecycle.Status(reqRow.Status), out.Status, user.Name)

	resp := gin.H{"status": string(out.Status), "proof_id": proof.ID}
	if proof.Checked {
		resp["detected_amount"] = lifecycle.FormatAmount(proof.DetectedCentavos)
		resp["amount_matches"] = proof.DetectedCentavos == reqRow.AmountCentavos
	}
	c.JSON(http.StatusOK, resp)
}

// deleteRequestHandler hard-deletes a request and its stored proofs. Admin only.
func deleteRequestHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if user.Role != string(lifecycle.RoleAdmin) && !user.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	var reqRow models.DocumentRequest
	if err := db.Where("barangay_id = ?", user.BarangayID).First(&reqRow, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	var proofs []models.PaymentProof
	db.Where("request_id = ?", reqRow.ID).Find(&proofs)
	for _, p := range proofs {
		if err := os.Remove(p.StorePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("proof file remove failed", zap.String("path", p.StorePath), zap.Error(err))
		}
	}
	db.Where("request_id = ?", reqRow.ID).Delete(&models.PaymentProof{})
	if err := db.Delete(&reqRow).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	logger.Info("request deleted", zap.String("reference", reqRow.ReferenceNo), zap.Uint("by", user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "request deleted"})
}

// loadVisibleRequest resolves :id within the caller's barangay and enforces
// that residents only ever see their own requests. It writes the error
// response itself and returns ok=false.
func loadVisibleRequest(c *gin.Context) (*models.User, *models.DocumentRequest, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, nil, false
	}
	var reqRow models.DocumentRequest
	if err := db.Where("barangay_id = ?", user.BarangayID).First(&reqRow, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, nil, false
	}
	actor := actorOf(user)
	if !actor.Role.Staff() && !actor.SuperAdmin && actor.ResidentID != reqRow.ResidentID {
		// a foreign request is indistinguishable from a missing one
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, nil, false
	}
	return user, &reqRow, true
}

// lifecycleRequestOf maps a stored row into the state machine's view,
// decoding the JSON payloads.
func lifecycleRequestOf(r models.DocumentRequest) lifecycle.Request {
	lr := lifecycle.Request{
		OwnerResidentID: r.ResidentID,
		AmountCentavos:  r.AmountCentavos,
		Status:          lifecycle.Status(r.Status),
		ApprovedAt:      r.ApprovedAt,
		ReleasedAt:      r.ReleasedAt,
	}
	if r.ResidentSnapshot != "" {
		var s lifecycle.ResidentSnapshot
		if json.Unmarshal([]byte(r.ResidentSnapshot), &s) == nil {
			lr.Snapshot = &s
		}
	}
	if r.PaymentDetails != "" {
		var p lifecycle.PaymentDetails
		if json.Unmarshal([]byte(r.PaymentDetails), &p) == nil {
			lr.Payment = &p
		}
	}
	return lr
}

func requestJSON(r models.DocumentRequest) gin.H {
	out := gin.H{
		"id":            r.ID,
		"reference_no":  r.ReferenceNo,
		"document_type": r.DocumentType,
		"requester":     r.RequesterName,
		"purpose":       r.Purpose,
		"amount":        lifecycle.FormatAmount(r.AmountCentavos),
		"status":        r.Status,
		"submitted_at":  r.SubmittedAt,
		"approved_at":   r.ApprovedAt,
		"released_at":   r.ReleasedAt,
	}
	if r.RejectedReason != "" {
		out["rejected_reason"] = r.RejectedReason
	}
	if r.ResidentSnapshot != "" {
		out["resident_snapshot"] = json.RawMessage(r.ResidentSnapshot)
	}
	if r.PaymentDetails != "" {
		out["payment"] = json.RawMessage(r.PaymentDetails)
	}
	return out
}

// transitionErrorStatus maps state machine errors onto HTTP codes: permission
// problems are 403, malformed input is 400, a legal-but-not-now transition is
// 409.
func transitionErrorStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrNotAllowed), errors.Is(err, lifecycle.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, lifecycle.ErrPaymentRequired):
		return http.StatusBadRequest
	case errors.Is(err, lifecycle.ErrTerminal),
		errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrSnapshotRequired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// normalizeProofImage shrinks oversized screenshots in place; phone captures
// at full resolution slow OCR down without helping it.
func normalizeProofImage(path string) {
	img, err := imaging.Open(path)
	if err != nil {
		return // not decodable here; OCR reports its own error
	}
	if img.Bounds().Dx() <= 1600 {
		return
	}
	resized := imaging.Resize(img, 1600, 0, imaging.Lanczos)
	if err := imaging.Save(resized, path); err != nil {
		logger.Warn("proof resize failed", zap.String("path", path), zap.Error(err))
	}
}
