package server

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/fluxcrm/internal/actorcontext"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
)

// authorize rejects the request unless the caller's role grants action on object.
func (s *Server) authorize(object string, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorcontext.FromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if s.authzSvc == nil {
			AbortWithError(c, ErrForbidden)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), actor.Role, object, action); err != nil {
			// a stored role outside the capability table grants nothing
			if errors.Is(err, authorization.ErrInvalidRole) {
				err = ErrForbidden
			}
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}
