package routes

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"equipment-logbook/internal/export"
	"equipment-logbook/internal/lending"
)

type statusRequest struct {
	Status  string `json:"status" binding:"required"`
	Confirm bool   `json:"confirm"`
}

type approveRequest struct {
	Confirm bool `json:"confirm"`
}

// GET /api/logs?q=
func (s *Server) listLogs(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, lending.Search(snap.Logs, c.Query("q")))
}

// POST /api/requests
func (s *Server) submitRequest(c *gin.Context) {
	var req lending.Request
	if !bindJSON(c, &req) {
		return
	}
	created, err := s.Logbook.SubmitRequest(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PATCH /api/logs/:id/status
func (s *Server) changeStatus(c *gin.Context) {
	principal, err := GetPrincipal(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, err := lending.ParseStatus(req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	cf := &confirmation{ok: req.Confirm}
	entry, err := s.Logbook.ChangeStatus(c.Request.Context(), c.Param("id"), status, principal.Username, cf.confirm)
	if err != nil {
		AbortWithError(c, cf.err(err))
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DELETE /api/logs/:id?confirm=true
func (s *Server) deleteEntry(c *gin.Context) {
	cf := confirmFromQuery(c)
	if err := s.Logbook.DeleteEntry(c.Request.Context(), c.Param("id"), cf.confirm); err != nil {
		AbortWithError(c, cf.err(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/logs/approve-today previews the bulk approval selection.
func (s *Server) pendingToday(c *gin.Context) {
	if _, ok := s.snapshot(c); !ok {
		return
	}
	c.JSON(http.StatusOK, s.Logbook.PendingToday())
}

// POST /api/logs/approve-today
func (s *Server) approveToday(c *gin.Context) {
	principal, err := GetPrincipal(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req approveRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, ok := s.snapshot(c); !ok {
		return
	}

	cf := &confirmation{ok: req.Confirm}
	n, err := s.Logbook.ApproveToday(c.Request.Context(), principal.Username, cf.confirm)
	if err != nil {
		AbortWithError(c, cf.err(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": n})
}

// GET /api/dashboard
func (s *Server) dashboard(c *gin.Context) {
	if _, ok := s.snapshot(c); !ok {
		return
	}
	d := s.Logbook.Dashboard()
	c.JSON(http.StatusOK, gin.H{
		"dashboard": d,
		"available": d.Available(),
	})
}

// GET /api/logs/export.csv
func (s *Server) exportLogs(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	// Rendered to a buffer first so a failure still gets a JSON error.
	var buf bytes.Buffer
	if err := export.WriteLogs(&buf, snap.Logs, export.Options{BOM: s.Export.BOM}); err != nil {
		AbortWithError(c, err)
		return
	}
	name := export.Filename(s.Export.Filename, s.Logbook.Now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
