package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoboard/internal/models"
)

type userRequest struct {
	ID        string `json:"id" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type statusRequest struct {
	Name string `json:"name" binding:"required"`
}

// handleListUsers lists every user, or looks one up by name when
// first_name or last_name is given.
func (s *Server) handleListUsers(c *gin.Context) {
	var (
		users []models.User
		err   error
	)
	first, last := c.Query("first_name"), c.Query("last_name")
	if first != "" || last != "" {
		users, err = s.users.FindByName(c.Request.Context(), first, last)
	} else {
		users, err = s.users.List(c.Request.Context())
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, users)
}

func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

// handleMe returns the caller, registering it on first sign in.
func (s *Server) handleMe(c *gin.Context) {
	user, err := s.users.Ensure(c.Request.Context(), identity(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user)
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := s.users.Create(c.Request.Context(), models.User{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, user)
}

func (s *Server) handleListStatuses(c *gin.Context) {
	statuses, err := s.statuses.List(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, statuses)
}

func (s *Server) handleCreateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	status, err := s.statuses.Create(c.Request.Context(), models.TaskStatus{Name: req.Name})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, status)
}
