package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garagebuddy/garagebuddy/internal/model"
	"github.com/garagebuddy/garagebuddy/internal/service"
)

type createSaleRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

func (s *Server) handleCreateSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sale, err := s.sales.Create(c.Request.Context(), actor(c), req.Name, req.StartDate, req.EndDate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSaleView(sale))
}

func (s *Server) handleListSales(c *gin.Context) {
	sales, err := s.sales.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]saleView, 0, len(sales))
	for i := range sales {
		out = append(out, toSaleView(&sales[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	sale, err := s.sales.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleView(sale))
}

type updateSaleRequest struct {
	Name      *string    `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

func (s *Server) handleUpdateSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sale, err := s.sales.Update(c.Request.Context(), actor(c), id, service.SaleUpdate{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toSaleView(sale))
}

func (s *Server) handleCloseSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := s.sales.Close(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := s.sales.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type assignRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

func (s *Server) handleAssignRole(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var req assignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	role := model.RoleFromName(req.Role)
	if err := s.sales.AssignRole(c.Request.Context(), actor(c), id, req.Email, role); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListMembers(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	members, err := s.sales.Members(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (s *Server) handleAssignableRoles(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	roles, err := s.sales.AssignableRoles(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roles)
}

func (s *Server) handleListSaleItems(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	unsoldOnly := c.Query("unsold") == "true"
	items, err := s.items.ListBySale(c.Request.Context(), id, unsoldOnly)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]itemView, 0, len(items))
	for i := range items {
		out = append(out, toItemView(&items[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleTags(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	tags, err := s.items.Tags(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}
