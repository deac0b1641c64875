package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiawesome/wes-io-live/relay-service/internal/hub"
	"github.com/weiawesome/wes-io-live/relay-service/internal/room"
	"github.com/weiawesome/wes-io-live/relay-service/pkg/log"
	"github.com/weiawesome/wes-io-live/relay-service/pkg/response"
)

// Handler serves health and room stats.
type Handler struct {
	rooms *room.Registry
	hub   *hub.Hub
}

// NewHandler creates a new HTTP handler.
func NewHandler(rooms *room.Registry, h *hub.Hub) *Handler {
	return &Handler{
		rooms: rooms,
		hub:   h,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/:room_id", h.GetRoom)
		}
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListRooms returns a summary of every live room.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms := h.rooms.Snapshot()
	response.OK(c, gin.H{
		"rooms":       rooms,
		"total":       len(rooms),
		"connections": h.hub.Count(),
	})
}

// GetRoom returns one room's summary.
func (h *Handler) GetRoom(c *gin.Context) {
	roomID := c.Param("room_id")

	summary, err := h.rooms.Stats(roomID)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			response.NotFound(c, "room")
			return
		}
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Str(log.FieldRoomID, roomID).Msg("failed to get room")
		response.Internal(c, "failed to get room")
		return
	}

	response.OK(c, summary)
}
