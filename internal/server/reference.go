package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListIndianStates(c *gin.Context) {
	states, err := s.refrepo.ListIndianStates(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": states})
}
