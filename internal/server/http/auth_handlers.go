package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garagebuddy/garagebuddy/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := s.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserView(u))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tokens, u, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "user": toUserView(u)})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, toUserView(actor(c)))
}

type updateProfileRequest struct {
	CurrentPassword string  `json:"current_password" binding:"required"`
	Name            *string `json:"name"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	State           *string `json:"state"`
	PostalCode      *string `json:"postal_code"`
	NewPassword     *string `json:"new_password"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	upd := service.ProfileUpdate{
		Name:        req.Name,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		NewPassword: req.NewPassword,
	}
	if err := s.auth.UpdateProfile(c.Request.Context(), actor(c), req.CurrentPassword, upd); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(actor(c)))
}

type deleteAccountRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

func (s *Server) handleDeleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.auth.DeleteAccount(c.Request.Context(), actor(c), req.CurrentPassword); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setSuperUserRequest struct {
	SuperUser bool `json:"super_user"`
}

func (s *Server) handleSetSuperUser(c *gin.Context) {
	var req setSuperUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.auth.SetSuperUser(c.Request.Context(), actor(c), c.Param("email"), req.SuperUser); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleUnlockProfile(c *gin.Context) {
	if err := s.auth.ResetLoginAttempts(c.Request.Context(), actor(c), c.Param("email")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
