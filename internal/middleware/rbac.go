package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hei-portal-api/internal/models"
	"github.com/noah-isme/hei-portal-api/internal/region"
	appErrors "github.com/noah-isme/hei-portal-api/pkg/errors"
	"github.com/noah-isme/hei-portal-api/pkg/response"
)

// RequireRoles blocks requests whose token role is not in the allowed set.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireInstitution blocks HEI routes unless the token is bound to an
// institution. Reviewer accounts have no institution and are refused.
func RequireInstitution() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if claims.Role != models.RoleHEI || claims.InstitutionID == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "an institution account is required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUnrestricted blocks central-catalog mutations from region-scoped
// reviewers. Only the "ALL" super-role passes.
func RequireUnrestricted() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !AdminContext(claims).Unrestricted {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "this action requires the unrestricted role"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the JWT claims stored by the JWT middleware.
func Claims(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// AdminContext derives the reviewer scope from the token claims. The
// region travels as a short code and is canonicalised once here.
func AdminContext(claims *models.JWTClaims) models.AdminContext {
	reviewerRegion := region.Canonical(claims.Region)
	return models.AdminContext{
		Region:        claims.Region,
		Unrestricted:  reviewerRegion == models.RegionAll,
		InstitutionID: claims.InstitutionID,
	}
}
