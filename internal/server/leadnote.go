package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leadnotedomain "github.com/smallbiznis/fluxcrm/internal/leadnote/domain"
)

type createLeadNoteRequest struct {
	LeadID     string `json:"lead_id"`
	Content    string `json:"content"`
	UpdateType string `json:"update_type"`
}

func (s *Server) ListLeadNotes(c *gin.Context) {
	items, err := s.leadNoteSvc.ListByLead(c.Request.Context(), strings.TrimSpace(c.Query("lead_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateLeadNote(c *gin.Context) {
	var req createLeadNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadNoteSvc.Create(c.Request.Context(), leadnotedomain.CreateRequest{
		LeadID:     strings.TrimSpace(req.LeadID),
		Content:    strings.TrimSpace(req.Content),
		UpdateType: strings.TrimSpace(req.UpdateType),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteLeadNote(c *gin.Context) {
	if err := s.leadNoteSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
