package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/database"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// BlacklistHandler serves the worker blacklist endpoints
type BlacklistHandler struct {
	blacklistRepo *database.BlacklistRepository
	logger        *logrus.Logger
}

func NewBlacklistHandler(blacklistRepo *database.BlacklistRepository, logger *logrus.Logger) *BlacklistHandler {
	return &BlacklistHandler{blacklistRepo: blacklistRepo, logger: logger}
}

// List returns all active blacklist entries
// GET /api/blacklist/all
func (h *BlacklistHandler) List(c *gin.Context) {
	entries, err := h.blacklistRepo.ListActive()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch blacklist")
		return
	}
	c.JSON(http.StatusOK, entries)
}

// Check reports whether a worker is blacklisted
// GET /api/blacklist/check/:userId
func (h *BlacklistHandler) Check(c *gin.Context) {
	userID := c.Param("userId")
	entry, err := h.blacklistRepo.GetActive(userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to check blacklist")
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"isBlacklisted": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"isBlacklisted": true,
		"reason":        entry.Reason,
		"entry":         entry,
	})
}

// Add puts a worker on the blacklist
// POST /api/blacklist/add
func (h *BlacklistHandler) Add(c *gin.Context) {
	var req models.AddBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId, userName and reason are required"})
		return
	}

	id, err := h.blacklistRepo.Add(&req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add blacklist entry")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":      req.UserID,
		"blacklist_id": id,
	}).Info("Worker blacklisted")
	c.JSON(http.StatusCreated, gin.H{
		"message":     "User blacklisted successfully",
		"blacklistId": id,
	})
}

// Remove deactivates a worker's blacklist entry
// DELETE /api/blacklist/remove/:userId
func (h *BlacklistHandler) Remove(c *gin.Context) {
	userID := c.Param("userId")
	if err := h.blacklistRepo.Remove(userID); err != nil {
		respondError(c, h.logger, err, "Failed to remove blacklist entry")
		return
	}

	h.logger.WithField("user_id", userID).Info("Worker removed from blacklist")
	c.JSON(http.StatusOK, gin.H{"message": "User removed from blacklist"})
}
