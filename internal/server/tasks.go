package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"autoboard/internal/models"
	"autoboard/internal/service"
)

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=100"`
	Description string  `json:"description" binding:"required,max=300"`
	StatusID    int64   `json:"status_id"`
	ProjectID   int64   `json:"project_id"`
	AssigneeID  *string `json:"assignee_id"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=300"`
	StatusID    *int64  `json:"status_id"`
}

type assignTaskRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required"`
}

// handleListTasks returns every task, optionally narrowed by project_id and assignee_id.
func (s *Server) handleListTasks(c *gin.Context) {
	var filter models.TaskFilter
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		filter.ProjectID = id
	}
	filter.AssigneeID = c.Query("assignee_id")

	tasks, err := s.tasks.List(c.Request.Context(), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleListProjectTasks fetches tasks for a project.
func (s *Server) handleListProjectTasks(c *gin.Context) {
	projectID, ok := parseID(c, "id")
	if !ok {
		return
	}

	tasks, err := s.tasks.List(c.Request.Context(), models.TaskFilter{ProjectID: projectID})
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, tasks)
}

// handleGetTask returns one task with its references.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.tasks.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleCreateTask inserts a new task and answers with the stored entity.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.Create(c.Request.Context(), models.Task{
		Title:       req.Title,
		Description: req.Description,
		StatusID:    req.StatusID,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
	}, actor(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleUpdateTask updates title, description or status of a task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.Update(c.Request.Context(), id, service.TaskChanges{
		Title:       req.Title,
		Description: req.Description,
		StatusID:    req.StatusID,
	}, actor(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleAssignTask hands a task to another user.
func (s *Server) handleAssignTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := s.tasks.Assign(c.Request.Context(), id, req.AssigneeID, actor(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, task)
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.tasks.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
