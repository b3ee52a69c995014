package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	teamdomain "github.com/smallbiznis/fluxcrm/internal/team/domain"
)

type inviteTeamMemberRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateTeamMemberRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (s *Server) ListTeam(c *gin.Context) {
	members, err := s.teamSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (s *Server) InviteTeamMember(c *gin.Context) {
	var req inviteTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.teamSvc.Invite(c.Request.Context(), teamdomain.InviteRequest{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     strings.TrimSpace(req.Role),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": member})
}

func (s *Server) UpdateTeamMember(c *gin.Context) {
	var req updateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.teamSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), teamdomain.UpdateRequest{
		Name:     req.Name,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": member})
}

func (s *Server) DeleteTeamMember(c *gin.Context) {
	if err := s.teamSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
