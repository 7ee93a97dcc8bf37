package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"bgyadmin/models"
	"bgyadmin/pkg/lifecycle"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	// public: requesters check progress by reference number, no login needed
	r.GET("/track/:ref", trackRequestHandler)
	r.GET("/documents", documentCatalogHandler)

	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)

	authGroup.POST("/requests", createRequestHandler)
	authGroup.GET("/requests", listRequestsHandler)
	authGroup.GET("/requests/:id", getRequestHandler)
	authGroup.POST("/requests/:id/status", transitionRequestHandler)
	authGroup.POST("/requests/:id/payment", submitPaymentHandler)
	authGroup.DELETE("/requests/:id", deleteRequestHandler)

	authGroup.POST("/residents", createResidentHandler)
	authGroup.GET("/residents", listResidentsHandler)
	authGroup.GET("/residents/:id", getResidentHandler)
	authGroup.PUT("/residents/:id", updateResidentHandler)
	authGroup.DELETE("/residents/:id", deleteResidentHandler)

	authGroup.GET("/barangay", getBarangayHandler)
	authGroup.PUT("/barangay", updateBarangayHandler)

	authGroup.GET("/reports/requests.xlsx", exportRequestsHandler)
	authGroup.GET("/reports/residents.xlsx", exportResidentsHandler)
	authGroup.POST("/insights", insightHandler)

	adminGroup := authGroup.Group("/admin")
	adminGroup.POST("/users", createStaffUserHandler)
	adminGroup.GET("/users", listUsersHandler)
	adminGroup.PATCH("/users/:id", updateUserHandler)
	adminGroup.DELETE("/users/:id", disableUserHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		sub, _ := claims["sub"].(float64)
		if sub <= 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		c.Set("user_id", uint(sub))
		c.Next()
	}
}

// currentUser loads the authenticated user row. The fresh query means a role
// change or a disable takes effect on the next request, not at token expiry.
func currentUser(c *gin.Context) (*models.User, bool) {
	idVal, _ := c.Get("user_id")
	id, ok := idVal.(uint)
	if !ok || id == 0 {
		return nil, false
	}
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, false
	}
	if user.Disabled {
		return nil, false
	}
	return &user, true
}

func actorOf(u *models.User) lifecycle.Actor {
	a := lifecycle.Actor{UserID: u.ID, Role: lifecycle.Role(u.Role), SuperAdmin: u.SuperAdmin}
	if u.ResidentID != nil {
		a.ResidentID = *u.ResidentID
	}
	return a
}

func meHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"name":        user.Name,
		"role":        user.Role,
		"barangay_id": user.BarangayID,
		"resident_id": user.ResidentID,
		"super_admin": user.SuperAdmin,
	})
}

// registerHandler is the resident self-service signup: one resident profile
// and one credential, created together.
func registerHandler(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required"`
		Password    string `json:"password" binding:"required"`
		FirstName   string `json:"first_name" binding:"required"`
		MiddleName  string `json:"middle_name"`
		LastName    string `json:"last_name" binding:"required"`
		HouseNo     string `json:"house_no"`
		Street      string `json:"street"`
		Purok       string `json:"purok"`
		Birthdate   string `json:"birthdate"` // YYYY-MM-DD
		CivilStatus string `json:"civil_status"`
		Occupation  string `json:"occupation"`
		Phone       string `json:"phone"`
		BarangayID  uint   `json:"barangay_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res := models.Resident{
		BarangayID:  req.BarangayID,
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
	if res.BarangayID == 0 {
		var bgy models.Barangay
		if err := db.Order("id").First(&bgy).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no barangay configured"})
			return
		}
		res.BarangayID = bgy.ID
	}
	user, err := RegisterResident(req.Email, req.Password, res)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registered successfully", "user_id": user.ID, "resident_id": user.ResidentID})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := issueAccessToken(user, 24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil || user.Disabled {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	tokenString, err := issueAccessToken(user, 15*time.Minute)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
