package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

// ICEHandler serves ICE server configuration to browsers.
type ICEHandler struct {
	iceServers []webrtc.ICEServer
}

// NewICEHandler creates a new ICE handler.
func NewICEHandler(iceServers []webrtc.ICEServer) *ICEHandler {
	return &ICEHandler{
		iceServers: iceServers,
	}
}

// GetICEServers handles ICE server requests.
func (h *ICEHandler) GetICEServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.iceServers})
}

func cors(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}

// RegisterRoutes registers the ICE routes.
func (h *ICEHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/ice-servers", cors, h.GetICEServers)
	r.OPTIONS("/api/ice-servers", cors)
}
