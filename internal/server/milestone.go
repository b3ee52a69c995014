package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	milestonedomain "github.com/smallbiznis/fluxcrm/internal/milestone/domain"
)

type createMilestoneRequest struct {
	LeadID    string `json:"lead_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

type updateMilestoneRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"`
}

func (s *Server) ListMilestones(c *gin.Context) {
	items, err := s.milestoneSvc.ListByLead(c.Request.Context(), strings.TrimSpace(c.Query("lead_id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateMilestone(c *gin.Context) {
	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.milestoneSvc.Create(c.Request.Context(), milestonedomain.CreateRequest{
		LeadID:    strings.TrimSpace(req.LeadID),
		Name:      strings.TrimSpace(req.Name),
		StartDate: strings.TrimSpace(req.StartDate),
		EndDate:   strings.TrimSpace(req.EndDate),
		Status:    strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateMilestone(c *gin.Context) {
	var req updateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.milestoneSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), milestonedomain.UpdateRequest{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    req.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteMilestone(c *gin.Context) {
	if err := s.milestoneSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
