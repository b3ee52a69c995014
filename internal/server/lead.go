package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
)

type createLeadRequest struct {
	LeadName          string   `json:"lead_name"`
	OrganizationID    string   `json:"organization_id"`
	Product           string   `json:"product"`
	SalesOwner        string   `json:"sales_owner"`
	OfferedPrice      *float64 `json:"offered_price"`
	AgreedPrice       *float64 `json:"agreed_price"`
	ExpectedVolume    *int64   `json:"expected_volume"`
	Stage             string   `json:"stage"`
	Status            string   `json:"status"`
	Probability       *int     `json:"probability"`
	ExpectedCloseDate string   `json:"expected_close_date"`
	Source            string   `json:"source"`
	Remarks           string   `json:"remarks"`
	Tags              []string `json:"tags"`
}

type updateLeadRequest struct {
	LeadName          *string  `json:"lead_name"`
	OrganizationID    *string  `json:"organization_id"`
	Product           *string  `json:"product"`
	SalesOwner        *string  `json:"sales_owner"`
	OfferedPrice      *float64 `json:"offered_price"`
	AgreedPrice       *float64 `json:"agreed_price"`
	ExpectedVolume    *int64   `json:"expected_volume"`
	Stage             *string  `json:"stage"`
	Status            *string  `json:"status"`
	Probability       *int     `json:"probability"`
	ExpectedCloseDate *string  `json:"expected_close_date"`
	Source            *string  `json:"source"`
	Remarks           *string  `json:"remarks"`
	Tags              []string `json:"tags"`
}

func (s *Server) CreateLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Create(c.Request.Context(), leaddomain.CreateLeadRequest{
		LeadName:          strings.TrimSpace(req.LeadName),
		OrganizationID:    strings.TrimSpace(req.OrganizationID),
		Product:           strings.TrimSpace(req.Product),
		SalesOwner:        strings.TrimSpace(req.SalesOwner),
		OfferedPrice:      req.OfferedPrice,
		AgreedPrice:       req.AgreedPrice,
		ExpectedVolume:    req.ExpectedVolume,
		Stage:             strings.TrimSpace(req.Stage),
		Status:            strings.TrimSpace(req.Status),
		Probability:       req.Probability,
		ExpectedCloseDate: strings.TrimSpace(req.ExpectedCloseDate),
		Source:            strings.TrimSpace(req.Source),
		Remarks:           strings.TrimSpace(req.Remarks),
		Tags:              req.Tags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListLeads(c *gin.Context) {
	var query struct {
		Stage          string `form:"stage"`
		Status         string `form:"status"`
		OrganizationID string `form:"organization_id"`
		SalesOwner     string `form:"sales_owner"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.leadSvc.List(c.Request.Context(), leaddomain.ListLeadRequest{
		Stage:          strings.TrimSpace(query.Stage),
		Status:         strings.TrimSpace(query.Status),
		OrganizationID: strings.TrimSpace(query.OrganizationID),
		SalesOwner:     strings.TrimSpace(query.SalesOwner),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetLeadByID(c *gin.Context) {
	resp, err := s.leadSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateLead(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), leaddomain.UpdateLeadRequest{
		LeadName:          req.LeadName,
		OrganizationID:    req.OrganizationID,
		Product:           req.Product,
		SalesOwner:        req.SalesOwner,
		OfferedPrice:      req.OfferedPrice,
		AgreedPrice:       req.AgreedPrice,
		ExpectedVolume:    req.ExpectedVolume,
		Stage:             req.Stage,
		Status:            req.Status,
		Probability:       req.Probability,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Source:            req.Source,
		Remarks:           req.Remarks,
		Tags:              req.Tags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteLead(c *gin.Context) {
	if err := s.leadSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
