package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/database"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// AllocationHandler serves the booking lifecycle endpoints
type AllocationHandler struct {
	allocationRepo *database.AllocationRepository
	userRepo       *database.UserRepository
	blacklistRepo  *database.BlacklistRepository
	logger         *logrus.Logger
}

func NewAllocationHandler(
	allocationRepo *database.AllocationRepository,
	userRepo *database.UserRepository,
	blacklistRepo *database.BlacklistRepository,
	logger *logrus.Logger,
) *AllocationHandler {
	return &AllocationHandler{
		allocationRepo: allocationRepo,
		userRepo:       userRepo,
		blacklistRepo:  blacklistRepo,
		logger:         logger,
	}
}

// Create books a bed for a worker
// POST /api/allocations
func (h *AllocationHandler) Create(c *gin.Context) {
	var req models.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId and bedId are required"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
		return
	}
	if startDate != nil && endDate != nil && !startDate.Before(*endDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be before endDate"})
		return
	}

	// The blacklist gate runs before the booking transaction. An entry added
	// between this check and the insert slips through; acceptable for an
	// admin-operated system.
	entry, err := h.blacklistRepo.GetActive(req.UserID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to check blacklist")
		return
	}
	if entry != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error":  "User is blacklisted and cannot be allocated",
			"reason": entry.Reason,
		})
		return
	}

	if err := h.userRepo.Upsert(req.UserID, req.UserName, req.Company); err != nil {
		respondError(c, h.logger, err, "Failed to save worker details")
		return
	}

	id, code, err := h.allocationRepo.Create(&req, startDate, endDate)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create allocation")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"allocation_id":   id,
		"user_id":         req.UserID,
		"bed_id":          req.BedID,
		"allocation_code": code,
	}).Info("Allocation created")

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Allocation created successfully",
		"allocation_id":   id,
		"allocation_code": code,
	})
}

// List returns all allocations with locations, newest first
// GET /api/allocations
func (h *AllocationHandler) List(c *gin.Context) {
	var (
		allocations []models.AllocationView
		err         error
	)
	if c.Query("status") == string(models.AllocationStatusBooked) {
		allocations, err = h.allocationRepo.ListBooked()
	} else {
		allocations, err = h.allocationRepo.List()
	}
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch allocations")
		return
	}
	c.JSON(http.StatusOK, allocations)
}

// GetByID returns one allocation with its bed location
// GET /api/allocations/:id
func (h *AllocationHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	allocation, err := h.allocationRepo.GetByID(id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch allocation")
		return
	}
	c.JSON(http.StatusOK, allocation)
}

// Update edits allocation details; checkout=true releases the bed
// PUT /api/allocations/:id
func (h *AllocationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate, expected YYYY-MM-DD"})
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate, expected YYYY-MM-DD"})
		return
	}
	if startDate != nil && endDate != nil && !startDate.Before(*endDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be before endDate"})
		return
	}

	status, err := h.allocationRepo.Update(id, &req, startDate, endDate)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update allocation")
		return
	}

	if req.Checkout {
		h.logger.WithField("allocation_id", id).Info("Allocation released via update")
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  status,
		"message": "Allocation updated successfully",
	})
}

// Checkout releases a booked allocation and frees its bed
// POST /api/allocations/:id/checkout
func (h *AllocationHandler) Checkout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.allocationRepo.Checkout(id); err != nil {
		respondError(c, h.logger, err, "Failed to checkout allocation")
		return
	}

	h.logger.WithField("allocation_id", id).Info("Allocation released")
	c.JSON(http.StatusOK, gin.H{"message": "Checked out successfully"})
}
