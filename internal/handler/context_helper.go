package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/middleware"
	"github.com/noah-isme/hei-portal-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// institutionFromContext returns the caller's institution id. Empty for
// reviewer accounts.
func institutionFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	return claims.InstitutionID
}

func adminFromContext(c *gin.Context) models.AdminContext {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.AdminContext{}
	}
	return middleware.AdminContext(claims)
}
