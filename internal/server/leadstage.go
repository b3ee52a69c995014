package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
)

type createLeadStageRequest struct {
	Name  string `json:"name"`
	Order *int   `json:"order"`
	Color string `json:"color"`
}

func (s *Server) ListLeadStages(c *gin.Context) {
	stages, err := s.leadStageSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stages})
}

func (s *Server) CreateLeadStage(c *gin.Context) {
	var req createLeadStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadStageSvc.Create(c.Request.Context(), leadstagedomain.CreateRequest{
		Name:  strings.TrimSpace(req.Name),
		Order: req.Order,
		Color: strings.TrimSpace(req.Color),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) DeleteLeadStage(c *gin.Context) {
	if err := s.leadStageSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
