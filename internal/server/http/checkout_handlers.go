package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createTransactionRequest struct {
	SaleID        int     `json:"sale_id" binding:"required"`
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerEmail *string `json:"customer_email"`
	ItemIDs       []int   `json:"item_ids"`
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	txn, err := s.checkout.Create(c.Request.Context(), actor(c), req.SaleID, req.CustomerName, req.CustomerEmail, req.ItemIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionView(txn))
}

func (s *Server) handleGetTransaction(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	txn, err := s.checkout.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionView(txn))
}

func (s *Server) handleListTransactions(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	txns, err := s.checkout.ListBySale(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]transactionView, 0, len(txns))
	for i := range txns {
		out = append(out, toTransactionView(&txns[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteTransaction(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := s.checkout.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type sellItemRequest struct {
	ItemID     int      `json:"item_id" binding:"required"`
	Negotiated *float64 `json:"negotiated_price"`
}

func (s *Server) handleSellItem(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var req sellItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.checkout.AddItem(c.Request.Context(), actor(c), id, req.ItemID, req.Negotiated); err != nil {
		fail(c, err)
		return
	}
	txn, err := s.checkout.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionView(txn))
}

func (s *Server) handleUnsellItem(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathInt(c, "itemID")
	if !ok {
		return
	}
	if err := s.checkout.RemoveItem(c.Request.Context(), actor(c), id, itemID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEmailReceipt(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := s.checkout.EmailReceipt(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
