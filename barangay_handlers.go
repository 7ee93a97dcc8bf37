package main

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

var trackingPrefixRE = regexp.MustCompile(`^[A-Z0-9]{2,8}$`)

func getBarangayHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var bgy models.Barangay
	if err := db.First(&bgy, user.BarangayID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, bgy)
}

// updateBarangayHandler edits the office profile. Admin or Captain.
func updateBarangayHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	role := lifecycle.Role(user.Role)
	if role != lifecycle.RoleAdmin && role != lifecycle.RoleCaptain && !user.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	var req struct {
		Name           string `json:"name"`
		Municipality   string `json:"municipality"`
		Province       string `json:"province"`
		CaptainName    string `json:"captain_name"`
		ContactEmail   string `json:"contact_email"`
		ContactPhone   string `json:"contact_phone"`
		TrackingPrefix string `json:"tracking_prefix"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{}
	set := func(col, val string) {
		if val != "" {
			updates[col] = val
		}
	}
	set("name", req.Name)
	set("municipality", req.Municipality)
	set("province", req.Province)
	set("captain_name", req.CaptainName)
	set("contact_email", req.ContactEmail)
	set("contact_phone", req.ContactPhone)
	if req.TrackingPrefix != "" {
		// the prefix feeds reference numbers; already-issued ones keep the old
		// prefix and remain trackable
		if !trackingPrefixRE.MatchString(req.TrackingPrefix) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tracking_prefix must be 2-8 uppercase letters or digits"})
			return
		}
		updates["tracking_prefix"] = req.TrackingPrefix
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := db.Model(&models.Barangay{}).Where("id = ?", user.BarangayID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "barangay updated"})
}
