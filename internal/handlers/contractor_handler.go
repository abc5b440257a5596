package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/database"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// ContractorHandler serves contractor master data endpoints
type ContractorHandler struct {
	contractorRepo *database.ContractorRepository
	logger         *logrus.Logger
}

func NewContractorHandler(contractorRepo *database.ContractorRepository, logger *logrus.Logger) *ContractorHandler {
	return &ContractorHandler{contractorRepo: contractorRepo, logger: logger}
}

// List returns contractors with open-allocation worker counts
// GET /api/contractors
func (h *ContractorHandler) List(c *gin.Context) {
	contractors, err := h.contractorRepo.List()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch contractors")
		return
	}
	c.JSON(http.StatusOK, contractors)
}

// Create registers a contractor master record
// POST /api/contractors
func (h *ContractorHandler) Create(c *gin.Context) {
	var req models.CreateContractorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contractorCode, name, company, phoneNumber and a valid email are required"})
		return
	}

	id, err := h.contractorRepo.Create(&req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create contractor")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"contractor_id":   id,
		"contractor_code": req.ContractorCode,
	}).Info("Contractor created")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Contractor created successfully",
		"id":      id,
	})
}
