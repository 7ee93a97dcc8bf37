package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

type residentBody struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	HouseNo     string `json:"house_no"`
	Street      string `json:"street"`
	Purok       string `json:"purok"`
	Birthdate   string `json:"birthdate"` // YYYY-MM-DD
	CivilStatus string `json:"civil_status"`
	Occupation  string `json:"occupation"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// createResidentHandler registers a resident record without a login, the
// walk-in case. Staff only.
func createResidentHandler(c *gin.Context) {
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
	var req residentBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first_name and last_name required"})
		return
	}
	res := models.Resident{
		BarangayID:  user.BarangayID,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		HouseNo:     req.HouseNo,
		Street:      req.Street,
		Purok:       req.Purok,
		CivilStatus: req.CivilStatus,
		Occupation:  req.Occupation,
		Email:       req.Email,
		Phone:       req.Phone,
	}
	if req.Birthdate != "" {
		if t, err := time.Parse("2006-01-02", req.Birthdate); err == nil {
			res.Birthdate = t
		}
	}
	if err := db.Create(&res).Error; err != nil {
		logger.Error("resident create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": res.ID, "name": res.DisplayName()})
}

// listResidentsHandler lists the barangay register. Staff only; ?q= does a
// name search.
func listResidentsHandler(c *gin.Context) {
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
	if term := c.Query("q"); term != "" {
		like := "%" + term + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ?", like, like)
	}
	var residents []models.Resident
	if err := q.Order("last_name, first_name").Limit(500).Find(&residents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, residents)
}

func getResidentHandler(c *gin.Context) {
	user, res, ok := loadVisibleResident(c)
	if !ok {
		return
	}
	_ = user
	c.JSON(http.StatusOK, res)
}

// updateResidentHandler edits a profile. Staff may edit any field of any
// resident in their barangay; a resident may update only their own contact
// fields. Identity fields on file stay staff-controlled.
func updateResidentHandler(c *gin.Context) {
	user, res, ok := loadVisibleResident(c)
	if !ok {
		return
	}
	actor := actorOf(user)
	var req residentBody
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
	set("civil_status", req.CivilStatus)
	set("occupation", req.Occupation)
	set("email", req.Email)
	set("phone", req.Phone)
	if actor.Role.Staff() || actor.SuperAdmin {
		set("first_name", req.FirstName)
		set("middle_name", req.MiddleName)
		set("last_name", req.LastName)
		set("house_no", req.HouseNo)
		set("street", req.Street)
		set("purok", req.Purok)
		if req.Birthdate != "" {
			if t, err := time.Parse("2006-01-02", req.Birthdate); err == nil {
				updates["birthdate"] = t
			}
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := db.Model(&models.Resident{}).Where("id = ?", res.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "resident updated"})
}

// deleteResidentHandler hard-deletes a resident row. Past requests keep their
// approval snapshots, so deleting the profile never alters an issued
// certificate. The linked credential, if any, is unlinked and disabled.
func deleteResidentHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if user.Role != string(lifecycle.RoleAdmin) && !user.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}
	var res models.Resident
	if err := db.Where("barangay_id = ?", user.BarangayID).First(&res, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err := db.Model(&models.User{}).Where("resident_id = ?", res.ID).
		Updates(map[string]interface{}{"resident_id": nil, "disabled": true}).Error; err != nil {
		logger.Warn("credential unlink failed", zap.Uint("resident_id", res.ID), zap.Error(err))
	}
	if err := db.Delete(&res).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	logger.Info("resident deleted", zap.Uint("resident_id", res.ID), zap.Uint("by", user.ID))
	c.JSON(http.StatusOK, gin.H{"message": "resident deleted"})
}

// loadVisibleResident resolves :id within the caller's barangay; residents
// only reach their own profile.
func loadVisibleResident(c *gin.Context) (*models.User, *models.Resident, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, nil, false
	}
	var res models.Resident
	if err := db.Where("barangay_id = ?", user.BarangayID).First(&res, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, nil, false
	}
	actor := actorOf(user)
	if !actor.Role.Staff() && !actor.SuperAdmin && actor.ResidentID != res.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return nil, nil, false
	}
	return user, &res, true
}
