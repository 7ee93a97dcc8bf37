package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bgyadmin/models"
	"bgyadmin/pkg/insight"
)

// insightHandler answers a staff question over the barangay's own records via
// the configured AI service. The dataset sent out contains aggregates and a
// recent request sample, no credentials or contact details.
func insightHandler(c *gin.Context) {
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
	if insightClient == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "insight service not configured"})
		return
	}
	var req struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !insightLimiter.Allow(c.Request.Context(), user.ID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "insight rate limit reached, try again later"})
		return
	}

	var bgy models.Barangay
	if err := db.First(&bgy, user.BarangayID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "barangay not found"})
		return
	}
	var residentCount int64
	db.Model(&models.Resident{}).Where("barangay_id = ?", user.BarangayID).Count(&residentCount)
	var requests []models.DocumentRequest
	if err := db.Where("barangay_id = ?", user.BarangayID).
		Order("submitted_at desc").Limit(200).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	dataset, err := insight.BuildDataset(bgy.Name, residentCount, requests)
	if err != nil {
		logger.Error("dataset build failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dataset build failed"})
		return
	}

	answer, err := insightClient.Generate(c.Request.Context(), req.Prompt, dataset)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
