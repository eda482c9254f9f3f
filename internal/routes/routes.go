package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-logbook/internal/access"
	"equipment-logbook/internal/config"
	"equipment-logbook/internal/jwt"
	"equipment-logbook/internal/lending"
	"equipment-logbook/internal/logbook"
)

// Server holds what the API handlers need.
type Server struct {
	Logbook *logbook.Service
	Admins  *access.Registry
	Issuer  *jwt.Issuer
	DB      Pinger
	Export  config.Export
	// LabelSize is the default QR label edge in pixels.
	LabelSize int
	// Login limits sign-in attempts per client IP. Nil disables limiting.
	Login *IPRateLimiter
}

// Register mounts the health check and the /api routes on r.
func Register(r gin.IRouter, s *Server) {
	Health(r, s.DB)

	api := r.Group("/api")
	auth := AuthMiddleware(s.Issuer)

	login := []gin.HandlerFunc{s.login}
	if s.Login != nil {
		login = append([]gin.HandlerFunc{s.Login.Middleware()}, login...)
	}
	api.POST("/auth/login", login...)
	api.POST("/auth/logout", auth, s.logout)
	api.GET("/auth/status", auth, s.authStatus)

	api.POST("/requests", s.submitRequest)
	api.GET("/dashboard", s.dashboard)

	api.GET("/logs", s.listLogs)
	api.GET("/logs/export.csv", s.exportLogs)
	api.GET("/logs/approve-today", auth, s.pendingToday)
	api.POST("/logs/approve-today", auth, s.approveToday)
	api.PATCH("/logs/:id/status", auth, s.changeStatus)
	api.DELETE("/logs/:id", auth, s.deleteEntry)

	api.GET("/equipment", s.listEquipment)
	api.GET("/equipment/:id/label.png", s.equipmentLabel)
	api.POST("/equipment", auth, s.createEquipment)
	api.PUT("/equipment/:id", auth, s.updateEquipment)
	api.DELETE("/equipment/:id", auth, s.deleteEquipment)

	collaterals := api.Group("/collaterals", auth)
	collaterals.GET("", s.listCollaterals)
	collaterals.POST("", s.createCollateral)
	collaterals.PUT("/:id", s.updateCollateral)
	collaterals.DELETE("/:id", s.deleteCollateral)

	admins := api.Group("/admins", auth)
	admins.GET("", s.listAdmins)
	admins.POST("", s.createAdmin)
	admins.PUT("/:id/password", s.changeAdminPassword)
	admins.DELETE("/:id", s.deleteAdmin)
}

// confirmation answers the service's confirmation prompt with the caller's
// explicit choice and remembers the prompt for the 428 response.
type confirmation struct {
	ok     bool
	prompt string
}

func confirmFromQuery(c *gin.Context) *confirmation {
	return &confirmation{ok: c.Query("confirm") == "true"}
}

func (cf *confirmation) confirm(prompt string) bool {
	cf.prompt = prompt
	return cf.ok
}

func (cf *confirmation) err(err error) error {
	if errors.Is(err, lending.ErrNotConfirmed) && cf.prompt != "" {
		return NewHTTPError(http.StatusPreconditionRequired, err, cf.prompt, "CONFIRMATION_REQUIRED")
	}
	return err
}

// snapshot refetches so reads see writes made by other processes.
func (s *Server) snapshot(c *gin.Context) (logbook.Snapshot, bool) {
	snap, err := s.Logbook.Refresh(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return snap, false
	}
	return snap, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		AbortWithHTTPError(c, http.StatusBadRequest, errors.Join(ErrInvalidRequest, err), "Invalid request format", "INVALID_REQUEST")
		return false
	}
	return true
}
