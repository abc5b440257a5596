package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/campaxis/camp-accommodation-backend/internal/apperrors"
	"github.com/campaxis/camp-accommodation-backend/internal/database"
	"github.com/campaxis/camp-accommodation-backend/internal/middleware"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
	"github.com/campaxis/camp-accommodation-backend/pkg/jwt"
)

// AuthHandler serves admin authentication endpoints
type AuthHandler struct {
	adminRepo  *database.AdminRepository
	jwtService *jwt.Service
	bcryptCost int
	logger     *logrus.Logger
}

func NewAuthHandler(adminRepo *database.AdminRepository, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		adminRepo:  adminRepo,
		jwtService: jwtService,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// clientInfo extracts browser and OS from the User-Agent header for the
// login audit log
func clientInfo(c *gin.Context) logrus.Fields {
	ua := user_agent.New(c.Request.UserAgent())
	browser, version := ua.Browser()
	return logrus.Fields{
		"ip":      c.ClientIP(),
		"browser": browser + " " + version,
		"os":      ua.OS(),
		"mobile":  ua.Mobile(),
	}
}

// Login authenticates an admin and returns an access/refresh token pair
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	admin, err := h.adminRepo.GetByUsername(req.Username)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			h.logger.WithFields(clientInfo(c)).WithField("username", req.Username).Warn("Login failed: unknown username")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		respondError(c, h.logger, err, "Login failed")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		h.logger.WithFields(clientInfo(c)).WithField("username", req.Username).Warn("Login failed: wrong password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(admin.ID, admin.Username)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate token")
		return
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(admin.ID, admin.Username)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate token")
		return
	}

	h.logger.WithFields(clientInfo(c)).WithFields(logrus.Fields{
		"admin_id": admin.ID,
		"username": admin.Username,
	}).Info("Admin login successful")

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"admin": gin.H{
			"id":        admin.ID,
			"username":  admin.Username,
			"full_name": admin.FullName,
		},
	})
}

// Refresh exchanges a refresh token for a new access token
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(claims.AdminID, claims.Username)
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": accessToken})
}

// Register creates an admin account; callable only by an authenticated admin
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and a password of at least 8 characters are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		respondError(c, h.logger, err, "Failed to hash password")
		return
	}

	id, err := h.adminRepo.Create(req.Username, string(hash), req.FullName)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create admin")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"admin_id": id,
		"username": req.Username,
	}).Info("Admin account created")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Admin created successfully",
		"id":      id,
	})
}

// Profile returns the authenticated admin's identity
// GET /api/auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	adminCtx, exists := middleware.GetAdminContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	admin, err := h.adminRepo.GetByUsername(adminCtx.Username)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch profile")
		return
	}
	c.JSON(http.StatusOK, admin)
}
