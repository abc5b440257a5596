package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/campaxis/camp-accommodation-backend/internal/database"
	"github.com/campaxis/camp-accommodation-backend/internal/models"
)

// CampHandler serves the location hierarchy: buildings, floors, rooms, beds
type CampHandler struct {
	buildingRepo *database.BuildingRepository
	floorRepo    *database.FloorRepository
	roomRepo     *database.RoomRepository
	bedRepo      *database.BedRepository
	logger       *logrus.Logger
}

func NewCampHandler(
	buildingRepo *database.BuildingRepository,
	floorRepo *database.FloorRepository,
	roomRepo *database.RoomRepository,
	bedRepo *database.BedRepository,
	logger *logrus.Logger,
) *CampHandler {
	return &CampHandler{
		buildingRepo: buildingRepo,
		floorRepo:    floorRepo,
		roomRepo:     roomRepo,
		bedRepo:      bedRepo,
		logger:       logger,
	}
}

// ListBuildings returns buildings in creation order; ?active=true filters to
// active ones (the set the allocation code indexes over)
// GET /api/buildings
func (h *CampHandler) ListBuildings(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	buildings, err := h.buildingRepo.List(activeOnly)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch buildings")
		return
	}
	c.JSON(http.StatusOK, buildings)
}

// ListBuildingSummaries returns the admin listing with floor counts
// GET /api/camps/buildings
func (h *CampHandler) ListBuildingSummaries(c *gin.Context) {
	summaries, err := h.buildingRepo.ListSummaries()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch buildings")
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// CreateBuilding creates a building with its initial floors
// POST /api/buildings
func (h *CampHandler) CreateBuilding(c *gin.Context) {
	var req models.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buildingName is required"})
		return
	}

	building, err := h.buildingRepo.Create(req.BuildingName, req.BuildingCode, req.Floors)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create building")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"building_id": building.ID,
		"name":        building.Name,
		"floors":      req.Floors,
	}).Info("Building created")
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Building created successfully",
		"building": building,
	})
}

// setBuildingActive toggles a building's soft-active flag. Deactivating a
// building shifts the sequential index of the buildings after it, so codes on
// new allocations change while stored codes keep their historical value.
func (h *CampHandler) setBuildingActive(c *gin.Context, active bool) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.buildingRepo.SetActive(id, active); err != nil {
		respondError(c, h.logger, err, "Failed to update building")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"building_id": id,
		"is_active":   active,
	}).Info("Building active flag changed")
	c.JSON(http.StatusOK, gin.H{"message": "Building updated successfully"})
}

// ActivateBuilding re-activates a building
// PATCH /api/buildings/:id/activate
func (h *CampHandler) ActivateBuilding(c *gin.Context) {
	h.setBuildingActive(c, true)
}

// DeactivateBuilding hides a building from booking without deleting it
// PATCH /api/buildings/:id/deactivate
func (h *CampHandler) DeactivateBuilding(c *gin.Context) {
	h.setBuildingActive(c, false)
}

// DeleteBuilding removes a building and its descendants unless allocations
// reference any bed under it
// DELETE /api/camps/buildings/:id
func (h *CampHandler) DeleteBuilding(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.buildingRepo.Delete(id); err != nil {
		respondError(c, h.logger, err, "Failed to delete building")
		return
	}

	h.logger.WithField("building_id", id).Info("Building deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Building deleted successfully"})
}

// ListFloors returns floors; ?buildingId= filters to one building
// GET /api/floors
func (h *CampHandler) ListFloors(c *gin.Context) {
	if raw := c.Query("buildingId"); raw != "" {
		buildingID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || buildingID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid buildingId"})
			return
		}
		floors, err := h.floorRepo.ListByBuilding(buildingID)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch floors")
			return
		}
		c.JSON(http.StatusOK, floors)
		return
	}

	floors, err := h.floorRepo.ListWithBuildings()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch floors")
		return
	}
	c.JSON(http.StatusOK, floors)
}

// CreateFloor creates a single floor with an explicit number
// POST /api/floors
func (h *CampHandler) CreateFloor(c *gin.Context) {
	var req models.CreateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buildingId, floorNumber and name are required"})
		return
	}

	floor, err := h.floorRepo.Create(req.BuildingID, *req.FloorNumber, req.Name)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create floor")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Floor created successfully",
		"floor":   floor,
	})
}

// AddFloors appends floors to a building, numbered above the current max
// POST /api/camps/floors/bulk
func (h *CampHandler) AddFloors(c *gin.Context) {
	var req models.AddFloorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "building and floorNumber are required"})
		return
	}

	start, ids, err := h.floorRepo.AddFloors(req.Building, req.Count)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add floors")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"building": req.Building,
		"count":    req.Count,
		"start":    start,
	}).Info("Floors added")
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Floors added successfully",
		"firstFloor": start,
		"ids":        ids,
	})
}

// DeleteFloor removes a floor and its rooms and beds unless allocations
// reference any bed under it
// DELETE /api/camps/floors/:id
func (h *CampHandler) DeleteFloor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.floorRepo.Delete(id); err != nil {
		respondError(c, h.logger, err, "Failed to delete floor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Floor deleted successfully"})
}

// ListRooms returns rooms. With ?floorId= the rows carry bed occupancy for
// the booking UI; otherwise the flat admin listing, optionally filtered by
// ?building= and ?floor=.
// GET /api/rooms
func (h *CampHandler) ListRooms(c *gin.Context) {
	if raw := c.Query("floorId"); raw != "" {
		floorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || floorID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid floorId"})
			return
		}
		rooms, err := h.roomRepo.ListByFloor(floorID)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch rooms")
			return
		}
		c.JSON(http.StatusOK, rooms)
		return
	}

	var floorNumber *int
	if raw := c.Query("floor"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid floor"})
			return
		}
		floorNumber = &n
	}

	rooms, err := h.roomRepo.ListWithLocation(c.Query("building"), floorNumber)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom creates a room with the lowest free number on the floor
// POST /api/rooms
func (h *CampHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "floorId is required"})
		return
	}

	room, err := h.roomRepo.Create(req.FloorID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create room")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":             "Room created successfully",
		"id":                  room.ID,
		"floor_id":            room.FloorID,
		"room_number":         room.RoomNumber,
		"display_room_number": fmt.Sprintf("%02d", room.RoomNumber),
	})
}

// AddRooms creates several rooms on a floor in one call
// POST /api/camps/rooms/bulk
func (h *CampHandler) AddRooms(c *gin.Context) {
	var req models.AddRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "floorId and roomNumber are required"})
		return
	}

	ids, numbers, err := h.roomRepo.AddRooms(req.FloorID, req.Count)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add rooms")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Rooms added successfully",
		"ids":         ids,
		"roomNumbers": numbers,
	})
}

// DeleteRoom removes a room and its beds unless allocations reference them
// DELETE /api/camps/rooms/:id
func (h *CampHandler) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roomRepo.Delete(id); err != nil {
		respondError(c, h.logger, err, "Failed to delete room")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}

// ListBeds returns beds; ?roomId= filters to one room for the booking UI
// GET /api/beds
func (h *CampHandler) ListBeds(c *gin.Context) {
	if raw := c.Query("roomId"); raw != "" {
		roomID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || roomID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid roomId"})
			return
		}
		beds, err := h.bedRepo.ListByRoom(roomID)
		if err != nil {
			respondError(c, h.logger, err, "Failed to fetch beds")
			return
		}
		c.JSON(http.StatusOK, beds)
		return
	}

	beds, err := h.bedRepo.ListWithLocation()
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch beds")
		return
	}
	c.JSON(http.StatusOK, beds)
}

// CreateBed creates a bed numbered one above the room's current maximum
// POST /api/beds
func (h *CampHandler) CreateBed(c *gin.Context) {
	var req models.CreateBedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	bed, err := h.bedRepo.Create(req.RoomID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create bed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":            "Bed created successfully",
		"id":                 bed.ID,
		"room_id":            bed.RoomID,
		"bed_number":         bed.BedNumber,
		"status":             bed.Status,
		"display_bed_number": bed.DisplayBedNumber,
	})
}

// AddBeds creates several beds in a room in one call
// POST /api/camps/beds/bulk
func (h *CampHandler) AddBeds(c *gin.Context) {
	var req models.AddBedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId and bedNumber are required"})
		return
	}

	start, ids, err := h.bedRepo.AddBeds(req.RoomID, req.Count)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add beds")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Beds added successfully",
		"firstBed": start,
		"ids":      ids,
	})
}

// DeleteBed removes a bed unless allocations reference it
// DELETE /api/camps/beds/:id
func (h *CampHandler) DeleteBed(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.bedRepo.Delete(id); err != nil {
		respondError(c, h.logger, err, "Failed to delete bed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bed deleted successfully"})
}
