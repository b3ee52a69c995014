package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	organizationdomain "github.com/smallbiznis/fluxcrm/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	State    string         `json:"state"`
	City     string         `json:"city"`
	Metadata map[string]any `json:"metadata"`
}

type updateOrganizationRequest struct {
	Name     *string        `json:"name"`
	Type     *string        `json:"type"`
	State    *string        `json:"state"`
	City     *string        `json:"city"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Create(c.Request.Context(), organizationdomain.CreateOrganizationRequest{
		Name:     strings.TrimSpace(req.Name),
		Type:     strings.TrimSpace(req.Type),
		State:    strings.TrimSpace(req.State),
		City:     strings.TrimSpace(req.City),
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListOrganizations(c *gin.Context) {
	var query struct {
		Type  string `form:"type"`
		State string `form:"state"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.organizationSvc.List(c.Request.Context(), organizationdomain.ListOrganizationRequest{
		Type:  strings.TrimSpace(query.Type),
		State: strings.TrimSpace(query.State),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetOrganizationByID(c *gin.Context) {
	resp, err := s.organizationSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateOrganization(c *gin.Context) {
	var req updateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), organizationdomain.UpdateOrganizationRequest{
		Name:     req.Name,
		Type:     req.Type,
		State:    req.State,
		City:     req.City,
		Metadata: req.Metadata,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteOrganization(c *gin.Context) {
	if err := s.organizationSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
