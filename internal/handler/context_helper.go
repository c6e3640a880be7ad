package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-plan-api/internal/middleware"
	"github.com/noah-isme/college-plan-api/internal/models"
)

// claimsFromContext returns the authenticated administrator, or nil on
// routes outside the JWT middleware.
func claimsFromContext(c *gin.Context) *models.AuthClaims {
	if v, ok := c.Get(middleware.ContextUserKey); ok {
		if claims, ok := v.(*models.AuthClaims); ok {
			return claims
		}
	}
	return nil
}
