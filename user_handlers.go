package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

// Stable reason strings for the provisioning endpoints; admin frontends
// branch on the exact values, so they are part of the API surface.
const (
	reasonMissingFields    = "missing fields"
	reasonInsufficientPerm = "insufficient permissions"
	reasonEmailExists      = "email already exists"
	reasonProvisionFailed  = "provisioning failed"
)

// requireUserAdmin gates the /admin/users endpoints: Admin role or the
// super-admin flag. Writes the error response itself on failure.
func requireUserAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	if user.Role != string(lifecycle.RoleAdmin) && !user.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": reasonInsufficientPerm})
		return nil, false
	}
	return user, true
}

// createStaffUserHandler provisions a staff account. The whole check-and-create
// runs server-side under the caller's verified identity; the admin's own
// session is never touched.
func createStaffUserHandler(c *gin.Context) {
	admin, ok := requireUserAdmin(c)
	if !ok {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": reasonMissingFields})
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" || req.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": reasonMissingFields})
		return
	}
	role, err := lifecycle.ParseRole(req.Role)
	if err != nil || !role.Staff() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff role"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password too short (min 6)"})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": reasonProvisionFailed})
		return
	}
	user := models.User{
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		HashedPassword: hashed,
		Name:           req.Name,
		Role:           string(role),
		BarangayID:     admin.BarangayID,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": reasonEmailExists})
			return
		}
		logger.Error("staff provisioning failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": reasonProvisionFailed})
		return
	}
	logger.Info("staff user provisioned",
		zap.String("email", user.Email),
		zap.String("role", user.Role),
		zap.Uint("by", admin.ID),
	)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

func listUsersHandler(c *gin.Context) {
	admin, ok := requireUserAdmin(c)
	if !ok {
		return
	}
	var users []models.User
	if err := db.Where("barangay_id = ?", admin.BarangayID).Order("id").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":          u.ID,
			"email":       u.Email,
			"name":        u.Name,
			"role":        u.Role,
			"super_admin": u.SuperAdmin,
			"disabled":    u.Disabled,
			"resident_id": u.ResidentID,
		})
	}
	c.JSON(http.StatusOK, out)
}

// updateUserHandler changes a user's role or disabled flag. Super-admin
// accounts can only be touched by another super admin.
func updateUserHandler(c *gin.Context) {
	admin, ok := requireUserAdmin(c)
	if !ok {
		return
	}
	var target models.User
	if err := db.Where("barangay_id = ?", admin.BarangayID).First(&target, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if target.SuperAdmin && !admin.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": reasonInsufficientPerm})
		return
	}
	var req struct {
		Role     *string `json:"role"`
		Disabled *bool   `json:"disabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{}
	if req.Role != nil {
		role, err := lifecycle.ParseRole(*req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// one account, one capacity: a resident-linked login never holds a
		// staff role
		if target.ResidentID != nil && role != lifecycle.RoleResident {
			c.JSON(http.StatusBadRequest, gin.H{"error": "resident accounts cannot hold staff roles"})
			return
		}
		updates["role"] = string(role)
	}
	if req.Disabled != nil {
		if target.ID == admin.ID && *req.Disabled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable own account"})
			return
		}
		updates["disabled"] = *req.Disabled
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := db.Model(&models.User{}).Where("id = ?", target.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	logger.Info("user updated", zap.Uint("user_id", target.ID), zap.Uint("by", admin.ID))
	c.JSON(http.StatusOK, gin.H{"message": "user updated"})
}

// disableUserHandler is the soft delete: the credential row survives but the
// account is disabled and demoted, so staff capability is revoked immediately.
func disableUserHandler(c *gin.Context) {
	admin, ok := requireUserAdmin(c)
	if !ok {
		return
	}
	var target models.User
	if err := db.Where("barangay_id = ?", admin.BarangayID).First(&target, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if target.ID == admin.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot disable own account"})
		return
	}
	if target.SuperAdmin && !admin.SuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": reasonInsufficientPerm})
		return
	}
	updates := map[string]interface{}{
		"disabled": true,
		"role":     string(lifecycle.RoleResident),
	}
	if err := db.Model(&models.User{}).Where("id = ?", target.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	logger.Info("user disabled", zap.Uint("user_id", target.ID), zap.Uint("by", admin.ID))
	c.JSON(http.StatusOK, gin.H{"message": "user disabled"})
}
