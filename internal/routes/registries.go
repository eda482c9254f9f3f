package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"equipment-logbook/internal/labels"
	"equipment-logbook/internal/lending"
)

const maxLabelSize = 2048

type adminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (s *Server) listEquipment(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Equipment)
}

// GET /api/equipment/:id/label.png[?size=]
func (s *Server) equipmentLabel(c *gin.Context) {
	size := s.LabelSize
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxLabelSize {
			AbortWithError(c, ErrInvalidParameter)
			return
		}
		size = n
	}

	item, err := s.Logbook.Equipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	png, err := labels.PNG(item.Name, size)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) createEquipment(c *gin.Context) {
	var item lending.EquipmentItem
	if !bindJSON(c, &item) {
		return
	}
	created, err := s.Logbook.CreateEquipment(c.Request.Context(), item)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateEquipment(c *gin.Context) {
	var item lending.EquipmentItem
	if !bindJSON(c, &item) {
		return
	}
	item.ID = c.Param("id")
	if err := s.Logbook.UpdateEquipment(c.Request.Context(), item); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteEquipment(c *gin.Context) {
	cf := confirmFromQuery(c)
	if err := s.Logbook.DeleteEquipment(c.Request.Context(), c.Param("id"), cf.confirm); err != nil {
		AbortWithError(c, cf.err(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listCollaterals(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Collaterals)
}

func (s *Server) createCollateral(c *gin.Context) {
	var item lending.CollateralItem
	if !bindJSON(c, &item) {
		return
	}
	created, err := s.Logbook.CreateCollateral(c.Request.Context(), item)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateCollateral(c *gin.Context) {
	var item lending.CollateralItem
	if !bindJSON(c, &item) {
		return
	}
	item.ID = c.Param("id")
	if err := s.Logbook.UpdateCollateral(c.Request.Context(), item); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) deleteCollateral(c *gin.Context) {
	cf := confirmFromQuery(c)
	if err := s.Logbook.DeleteCollateral(c.Request.Context(), c.Param("id"), cf.confirm); err != nil {
		AbortWithError(c, cf.err(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listAdmins(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, snap.Admins)
}

func (s *Server) createAdmin(c *gin.Context) {
	var req adminRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := s.Logbook.CreateAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (s *Server) changeAdminPassword(c *gin.Context) {
	var req passwordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := s.Logbook.ChangeAdminPassword(c.Request.Context(), c.Param("id"), req.Password); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteAdmin(c *gin.Context) {
	cf := confirmFromQuery(c)
	if err := s.Logbook.DeleteAdmin(c.Request.Context(), c.Param("id"), cf.confirm); err != nil {
		AbortWithError(c, cf.err(err))
		return
	}
	c.Status(http.StatusNoContent)
}
