package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	documentdomain "github.com/smallbiznis/fluxcrm/internal/document/domain"
)

type createDocumentRequest struct {
	LeadID     string `json:"lead_id"`
	Type       string `json:"type"`
	CustomName string `json:"custom_name"`
	Status     string `json:"status"`
}

// shared_at and signed_at are stamped by the server and never read from clients.
type updateDocumentRequest struct {
	Type       *string `json:"type"`
	CustomName *string `json:"custom_name"`
	Status     *string `json:"status"`
}

func (s *Server) ListDocuments(c *gin.Context) {
	items, err := s.documentSvc.ListByLead(c.Request.Context(), strings.TrimSpace(c.Query("lead_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.Create(c.Request.Context(), documentdomain.CreateDocumentRequest{
		LeadID:     strings.TrimSpace(req.LeadID),
		Type:       strings.TrimSpace(req.Type),
		CustomName: strings.TrimSpace(req.CustomName),
		Status:     strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateDocument(c *gin.Context) {
	var req updateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.documentSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), documentdomain.UpdateDocumentRequest{
		Type:       req.Type,
		CustomName: req.CustomName,
		Status:     req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	if err := s.documentSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
