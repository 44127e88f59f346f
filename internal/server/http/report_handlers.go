package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSellerReport(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	rep, err := s.reports.Seller(c.Request.Context(), actor(c), id, c.Param("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleAllSellerReports(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	reps, err := s.reports.AllSellers(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reps)
}

func (s *Server) handleStats(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	stats, err := s.reports.Stats(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
