package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
	"bgyadmin/pkg/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportRequestsHandler streams the request register as an xlsx workbook.
// ?from= and ?to= (YYYY-MM-DD, inclusive) bound the submission date, ?status=
// filters by lifecycle status. Staff only.
func exportRequestsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	actor := actorOf(user)
	if !actor.Role.Staff() && !actor.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	q := db.Where("barangay_id = ?", user.BarangayID)
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from: expected YYYY-MM-DD"})
			return
		}
		q = q.Where("submitted_at >= ?", t)
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to: expected YYYY-MM-DD"})
			return
		}
		q = q.Where("submitted_at < ?", t.AddDate(0, 0, 1))
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
	if err := q.Order("submitted_at").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, report.RequestRowOf(r))
	}
	data, err := report.Workbook("Requests", report.RequestHeader, rows)
	if err != nil {
		logger.Error("request export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	name := "requests-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// exportResidentsHandler streams the resident register as an xlsx workbook.
// Staff only.
func exportResidentsHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	actor := actorOf(user)
	if !actor.Role.Staff() && !actor.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	var residents []models.Resident
	if err := db.Where("barangay_id = ?", user.BarangayID).
		Order("last_name, first_name").Find(&residents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	rows := make([][]string, 0, len(residents))
	for _, r := range residents {
		rows = append(rows, report.ResidentRowOf(r))
	}
	data, err := report.Workbook("Residents", report.ResidentHeader, rows)
	if err != nil {
		logger.Error("resident export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	name := "residents-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}
