package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	salesflowdomain "github.com/smallbiznis/fluxcrm/internal/salesflow/domain"
)

type createSalesFlowStepRequest struct {
	PlayerType  string `json:"player_type"`
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Output      string `json:"output"`
}

type updateSalesFlowStepRequest struct {
	PlayerType  *string `json:"player_type"`
	StepNumber  *int    `json:"step_number"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
	Output      *string `json:"output"`
}

func (s *Server) ListSalesFlow(c *gin.Context) {
	items, err := s.salesFlowSvc.List(c.Request.Context(), strings.TrimSpace(c.Query("player_type")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) CreateSalesFlowStep(c *gin.Context) {
	var req createSalesFlowStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.salesFlowSvc.Create(c.Request.Context(), salesflowdomain.CreateRequest{
		PlayerType:  strings.TrimSpace(req.PlayerType),
		StepNumber:  req.StepNumber,
		Description: strings.TrimSpace(req.Description),
		Owner:       strings.TrimSpace(req.Owner),
		Output:      strings.TrimSpace(req.Output),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateSalesFlowStep(c *gin.Context) {
	var req updateSalesFlowStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.salesFlowSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), salesflowdomain.UpdateRequest{
		PlayerType:  req.PlayerType,
		StepNumber:  req.StepNumber,
		Description: req.Description,
		Owner:       req.Owner,
		Output:      req.Output,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteSalesFlowStep(c *gin.Context) {
	if err := s.salesFlowSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
