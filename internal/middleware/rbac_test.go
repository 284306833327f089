package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hei-portal-api/internal/models"
)

func runGate(t *testing.T, gate gin.HandlerFunc, claims *models.JWTClaims) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	gate(c)
	return rec, !c.IsAborted()
}

func TestRequireRoles(t *testing.T) {
	gate := RequireRoles(models.RoleAdmin)

	_, passed := runGate(t, gate, &models.JWTClaims{Role: models.RoleAdmin})
	assert.True(t, passed)

	rec, passed := runGate(t, gate, &models.JWTClaims{Role: models.RoleHEI})
	assert.False(t, passed)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, passed = runGate(t, gate, nil)
	assert.False(t, passed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireInstitution(t *testing.T) {
	gate := RequireInstitution()

	_, passed := runGate(t, gate, &models.JWTClaims{Role: models.RoleHEI, InstitutionID: "hei-1"})
	assert.True(t, passed)

	rec, passed := runGate(t, gate, &models.JWTClaims{Role: models.RoleAdmin, Region: "ALL"})
	assert.False(t, passed)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireUnrestricted(t *testing.T) {
	gate := RequireUnrestricted()

	_, passed := runGate(t, gate, &models.JWTClaims{Role: models.RoleAdmin, Region: models.RegionAll})
	assert.True(t, passed)

	// region-scoped reviewers may not touch the central catalog
	rec, passed := runGate(t, gate, &models.JWTClaims{Role: models.RoleAdmin, Region: "Region 4A"})
	assert.False(t, passed)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, passed = runGate(t, gate, nil)
	assert.False(t, passed)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
