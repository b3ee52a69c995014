package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
)

type createOrgTypeRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) ListOrgTypes(c *gin.Context) {
	types, err := s.orgTypeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": types})
}

func (s *Server) CreateOrgType(c *gin.Context) {
	var req createOrgTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.orgTypeSvc.Create(c.Request.Context(), orgtypedomain.CreateRequest{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.TrimSpace(req.Color),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteOrgType(c *gin.Context) {
	if err := s.orgTypeSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
