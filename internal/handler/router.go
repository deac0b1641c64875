package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	pkglog "github.com/weiawesome/wes-io-live/relay-service/pkg/log"
)

// NewRouter builds the gin engine. A non-empty staticDir is served for
// unmatched paths.
func NewRouter(logger zerolog.Logger, ws *WSHandler, api *Handler, ice *ICEHandler, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger, "/healthz"))

	ws.RegisterRoutes(r)
	api.RegisterRoutes(r)
	ice.RegisterRoutes(r)

	if staticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(staticDir))))
	}
	return r
}
