package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoboard/internal/models"
)

// handleLogsByTask returns the activity log of a task. Both a token failure
// and an empty log answer with an empty list.
func (s *Server) handleLogsByTask(c *gin.Context) {
	id, ok := s.identify(c, []models.ActivityLog{})
	if !ok {
		return
	}
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	logs, err := s.logs.LogsByTask(c.Request.Context(), taskID, id.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondLogs(c, logs)
}

// handleLogsByProject returns the activity log of every task in a project.
func (s *Server) handleLogsByProject(c *gin.Context) {
	id, ok := s.identify(c, []models.ActivityLog{})
	if !ok {
		return
	}
	projectID, ok := parseID(c, "projectId")
	if !ok {
		return
	}

	logs, err := s.logs.LogsByProject(c.Request.Context(), projectID, id.UserID)
	if err != nil {
		s.fail(c, err)
		return
	}
	respondLogs(c, logs)
}

func respondLogs(c *gin.Context, logs []models.ActivityLog) {
	if len(logs) == 0 {
		c.JSON(http.StatusNotFound, []models.ActivityLog{})
		return
	}
	c.JSON(http.StatusOK, logs)
}
