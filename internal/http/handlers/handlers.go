package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/resourceboard/backend/internal/ai"
	"github.com/resourceboard/backend/internal/db"
	"github.com/resourceboard/backend/internal/models"
	"github.com/resourceboard/backend/internal/service"
)

type Handler struct {
	Board      *service.BoardService
	Source     db.Source
	Summarizer ai.Summarizer
	Validator  *validator.Validate
	Logger     zerolog.Logger
	AdminKey   string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Source.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Board snapshot
// @Description Computed dashboard: sorted developers, per-day heatmap cells, timeline geometry, team metrics, and warning state
// @Tags board
// @Produce json
// @Param q query string false "Developer name filter"
// @Param sort query string false "LOAD_WEEK_DESC | LOAD_TODAY_DESC | OVERBOOKED_DESC | ALPHABETICAL"
// @Param start query string false "Window start date (YYYY-MM-DD)"
// @Param view query string false "week | 2weeks | month"
// @Param weekends query bool false "Always show weekends"
// @Success 200 {object} service.Board
// @Router /api/board [get]
func (h *Handler) BoardView(c *gin.Context) {
	view := models.ViewConfig{
		Query:        c.Query("q"),
		Sort:         parseSortOption(c.Query("sort")),
		StartDate:    models.DateOnly(c.Query("start")),
		Days:         parseViewDays(c.Query("view"), c.Query("days")),
		ShowWeekends: parseBool(c.Query("weekends")),
	}
	c.JSON(http.StatusOK, h.Board.BuildBoard(view))
}

func (h *Handler) DevelopersList(c *gin.Context) {
	snap := h.Board.Snapshot()
	devs := snap.Developers
	if devs == nil {
		devs = []models.Developer{}
	}
	c.JSON(http.StatusOK, gin.H{"items": devs, "loaded_at": snap.LoadedAt})
}

// @Summary Setup script
// @Tags setup
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/setup [get]
func (h *Handler) Setup(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sql": db.SetupSQL})
}

// @Summary Reload board data
// @Tags board
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	if err := h.Board.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, db.ErrMissingSchema) {
			writeError(c, http.StatusConflict, "SETUP_REQUIRED", "Required tables missing. Please run setup script.", gin.H{"sql": db.SetupSQL})
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load board data", err.Error())
		return
	}
	snap := h.Board.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"developers": len(snap.Developers),
		"tickets":    len(snap.Tickets),
		"blocks":     len(snap.Blocks),
		"loaded_at":  snap.LoadedAt,
	})
}

type AvailabilityRequest struct {
	DeveloperID string `json:"developer_id" validate:"required"`
	Type        string `json:"type" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date"`
	Notes       string `json:"notes"`
}

// @Summary Add unavailability block
// @Tags availability
// @Accept json
// @Produce json
// @Param request body AvailabilityRequest true "Block"
// @Success 200 {object} models.AvailabilityBlock
// @Failure 400 {object} map[string]any
// @Router /api/availability [post]
func (h *Handler) AddAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	blockType := parseAvailabilityType(req.Type)
	if blockType == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown availability type", req.Type)
		return
	}
	block := h.Board.AddAvailability(c.Request.Context(), req.DeveloperID, blockType, req.StartDate, req.EndDate, req.Notes)
	c.JSON(http.StatusOK, block)
}

type MoveTicketRequest struct {
	DeveloperID string `json:"developer_id" validate:"required"`
	Date        string `json:"date" validate:"required"`
}

// @Summary Move a ticket to a developer and day
// @Tags tickets
// @Accept json
// @Produce json
// @Param key path string true "Ticket key"
// @Param request body MoveTicketRequest true "Target"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/tickets/{key}/move [post]
func (h *Handler) MoveTicket(c *gin.Context) {
	key := c.Param("key")
	var req MoveTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if !h.Board.MoveTicket(c.Request.Context(), key, req.DeveloperID, req.Date) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Ticket not found", key)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Analyze schedule
// @Description LLM summary of the current schedule; failures return the fixed fallback text
// @Tags analyze
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	snap := h.Board.Snapshot()
	payload := ai.BuildPayload(snap.Developers, snap.Tickets, snap.Blocks)
	text, err := h.Summarizer.AnalyzeSchedule(c.Request.Context(), payload)
	if err != nil {
		h.Logger.Error().Err(err).Msg("schedule analysis failed")
		text = ai.FallbackSummary
	}
	c.JSON(http.StatusOK, gin.H{"summary": text})
}

func (h *Handler) DismissWarning(c *gin.Context) {
	if banner := h.Board.Banner; banner != nil {
		banner.Dismiss()
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func parseSortOption(v string) models.SortOption {
	switch models.SortOption(strings.ToUpper(strings.TrimSpace(v))) {
	case models.SortAlphabetical:
		return models.SortAlphabetical
	case models.SortLoadTodayDesc:
		return models.SortLoadTodayDesc
	case models.SortOverbookedDesc:
		return models.SortOverbookedDesc
	default:
		return models.SortLoadWeekDesc
	}
}

func parseViewDays(view, days string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(days)); err == nil && n > 0 {
		return n
	}
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(view), " ", "")) {
	case "week":
		return 7
	case "month":
		return 30
	default:
		return 14
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func parseAvailabilityType(v string) models.AvailabilityType {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "available":
		return models.AvailabilityAvailable
	case "ooo", "out of office":
		return models.AvailabilityOOO
	case "maintenance", "training / maintenance":
		return models.AvailabilityMaintenance
	case "downtime":
		return models.AvailabilityDowntime
	default:
		return ""
	}
}
