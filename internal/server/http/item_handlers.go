package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garagebuddy/garagebuddy/internal/service"
)

type createItemRequest struct {
	SaleID *int    `json:"sale_id"`
	Name   string  `json:"name" binding:"required"`
	Price  float64 `json:"price" binding:"gte=0"`
}

func (s *Server) handleCreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	it, err := s.items.Create(c.Request.Context(), actor(c), req.SaleID, req.Name, req.Price)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemView(it))
}

func (s *Server) handleGetItem(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	it, err := s.items.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemView(it))
}

type updateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	MinPrice    *float64 `json:"min_price"`
}

func (s *Server) handleUpdateItem(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	it, err := s.items.Update(c.Request.Context(), actor(c), id, service.ItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		MinPrice:    req.MinPrice,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemView(it))
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := s.items.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addItemToSaleRequest struct {
	SaleID int `json:"sale_id" binding:"required"`
}

func (s *Server) handleAddItemToSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var req addItemToSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.items.AddToSale(c.Request.Context(), actor(c), id, req.SaleID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRemoveItemFromSale(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := s.items.RemoveFromSale(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type postBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (s *Server) handlePostBid(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var req postBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	it, err := s.items.PostBid(c.Request.Context(), actor(c), id, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemView(it))
}
