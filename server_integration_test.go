package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	cfg = loadConfig()
	cfg.UploadBase = t.TempDir()
	logger = zap.NewNop()
	jwtSecret = []byte(cfg.JWTSecret)
	initDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	return performRequest(r, http.MethodPost, path, bytes.NewBuffer(b), token, "application/json")
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json response: %v body=%s", err, resp.Body.String())
	}
	return out
}

func loginAs(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	resp := postJSON(t, r, "/login", map[string]string{"email": email, "password": password}, "")
	if resp.Code != 200 {
		t.Fatalf("login %s failed status=%d body=%s", email, resp.Code, resp.Body.String())
	}
	token, _ := decode(t, resp)["token"].(string)
	if token == "" {
		t.Fatalf("empty token for %s", email)
	}
	return token
}

func TestDocumentRequestFullFlow(t *testing.T) {
	r := setupTestServer(t)
	email := fmt.Sprintf("res%d@example.com", time.Now().UnixNano())

	// 1. Register a resident
	resp := postJSON(t, r, "/register", map[string]string{
		"email":      email,
		"password":   "secret1",
		"first_name": "Juan",
		"last_name":  "Dela Cruz",
		"purok":      "Purok 3",
	}, "")
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	residentToken := loginAs(t, r, email, "secret1")
	adminToken := loginAs(t, r, cfg.AdminEmail, cfg.AdminPassword)

	// 2. Resident files a clearance request
	resp = postJSON(t, r, "/requests", map[string]string{
		"document_type": "Barangay Clearance",
		"purpose":       "employment",
	}, residentToken)
	if resp.Code != 200 {
		t.Fatalf("create request failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	created := decode(t, resp)
	ref, _ := created["reference_no"].(string)
	if ref == "" {
		t.Fatalf("missing reference number: %+v", created)
	}
	if amt, _ := created["amount"].(string); amt != "50.00" {
		t.Fatalf("expected amount 50.00 got %q", created["amount"])
	}
	reqID := int(created["id"].(float64))
	statusPath := fmt.Sprintf("/requests/%d/status", reqID)

	// 3. Public tracking works without a token
	resp = performRequest(r, http.MethodGet, "/track/"+ref, nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("track failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got, _ := decode(t, resp)["status"].(string); got != "Pending" {
		t.Fatalf("expected Pending, got %q", got)
	}

	// 4. Resident cannot approve their own request
	resp = postJSON(t, r, statusPath, map[string]string{"status": "Approved"}, residentToken)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for resident approval, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 5. Admin approves
	resp = postJSON(t, r, statusPath, map[string]string{"status": "Approved"}, adminToken)
	if resp.Code != 200 {
		t.Fatalf("approve failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Resident submits the GCash proof
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	_ = mw.WriteField("transaction_id", "1234 567 890123")
	w, _ := mw.CreateFormFile("proof", "gcash.png")
	_, _ = w.Write([]byte("not really an image, ocr is best-effort"))
	_ = mw.Close()
	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/requests/%d/payment", reqID), buf, residentToken, mw.FormDataContentType())
	if resp.Code != 200 {
		t.Fatalf("payment submit failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got, _ := decode(t, resp)["status"].(string); got != "Payment Submitted" {
		t.Fatalf("expected Payment Submitted, got %q", got)
	}

	// 7. Admin confirms payment and releases
	resp = postJSON(t, r, statusPath, map[string]string{"status": "Paid"}, adminToken)
	if resp.Code != 200 {
		t.Fatalf("confirm payment failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = postJSON(t, r, statusPath, map[string]string{"status": "Released"}, adminToken)
	if resp.Code != 200 {
		t.Fatalf("release failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Released is terminal
	resp = postJSON(t, r, statusPath, map[string]string{"status": "Approved"}, adminToken)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on terminal request, got %d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/requests", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list, got %d", unauth.Code)
	}
}

func TestFreeDocumentSkipsPayment(t *testing.T) {
	r := setupTestServer(t)
	email := fmt.Sprintf("indig%d@example.com", time.Now().UnixNano())

	resp := postJSON(t, r, "/register", map[string]string{
		"email":      email,
		"password":   "secret1",
		"first_name": "Maria",
		"last_name":  "Santos",
	}, "")
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	residentToken := loginAs(t, r, email, "secret1")
	adminToken := loginAs(t, r, cfg.AdminEmail, cfg.AdminPassword)

	resp = postJSON(t, r, "/requests", map[string]string{
		"document_type": "Certificate of Indigency",
		"purpose":       "medical assistance",
	}, residentToken)
	if resp.Code != 200 {
		t.Fatalf("create request failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	reqID := int(decode(t, resp)["id"].(float64))

	// approving a free document lands directly on Payment Verified
	resp = postJSON(t, r, fmt.Sprintf("/requests/%d/status", reqID), map[string]string{"status": "Approved"}, adminToken)
	if resp.Code != 200 {
		t.Fatalf("approve failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got, _ := decode(t, resp)["status"].(string); got != "Payment Verified" {
		t.Fatalf("expected Payment Verified, got %q", got)
	}

	resp = postJSON(t, r, fmt.Sprintf("/requests/%d/status", reqID), map[string]string{"status": "Released"}, adminToken)
	if resp.Code != 200 {
		t.Fatalf("release failed status=%d body=%s", resp.Code, resp.Body.String())
	}
}

func TestStaffProvisioning(t *testing.T) {
	r := setupTestServer(t)
	adminToken := loginAs(t, r, cfg.AdminEmail, cfg.AdminPassword)
	email := fmt.Sprintf("treasurer%d@example.com", time.Now().UnixNano())

	// missing fields is a stable reason code
	resp := postJSON(t, r, "/admin/users", map[string]string{"email": email}, adminToken)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", resp.Code, resp.Body.String())
	}
	if got, _ := decode(t, resp)["error"].(string); got != "missing fields" {
		t.Fatalf("expected reason %q, got %q", "missing fields", got)
	}

	body := map[string]string{
		"email":    email,
		"password": "secret1",
		"name":     "T. Reyes",
		"role":     "Treasurer",
	}
	resp = postJSON(t, r, "/admin/users", body, adminToken)
	if resp.Code != 200 {
		t.Fatalf("provisioning failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// duplicate email
	resp = postJSON(t, r, "/admin/users", body, adminToken)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", resp.Code, resp.Body.String())
	}
	if got, _ := decode(t, resp)["error"].(string); got != "email already exists" {
		t.Fatalf("expected reason %q, got %q", "email already exists", got)
	}

	// the provisioned treasurer can log in but cannot provision
	treasurerToken := loginAs(t, r, email, "secret1")
	resp = postJSON(t, r, "/admin/users", map[string]string{
		"email": "x@example.com", "password": "secret1", "name": "X", "role": "Secretary",
	}, treasurerToken)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", resp.Code, resp.Body.String())
	}
	if got, _ := decode(t, resp)["error"].(string); got != "insufficient permissions" {
		t.Fatalf("expected reason %q, got %q", "insufficient permissions", got)
	}
}

func TestRequestExport(t *testing.T) {
	r := setupTestServer(t)
	adminToken := loginAs(t, r, cfg.AdminEmail, cfg.AdminPassword)

	resp := performRequest(r, http.MethodGet, "/reports/requests.xlsx", nil, adminToken, "")
	if resp.Code != 200 {
		t.Fatalf("export failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp.Body.Len() == 0 {
		t.Fatal("empty workbook")
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	cfg = loadConfig()
	logger = zap.NewNop()
	initDB()
}
