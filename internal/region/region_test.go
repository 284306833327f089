package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, "Region I", Canonical("Region 1"))
	assert.Equal(t, "Region IV-A", Canonical("Region 4A"))
	assert.Equal(t, "Region XIII", Canonical("Region 13"))
	// lookup tolerates case and spacing drift
	assert.Equal(t, "Region I", Canonical("region 1"))
	assert.Equal(t, "Region IV-A", Canonical(" region  4a "))
	// unmapped values pass through
	assert.Equal(t, "NCR", Canonical("NCR"))
	assert.Equal(t, "Region VII", Canonical("Region VII"))
	assert.Equal(t, "CAR", Canonical(" CAR "))
}

func TestMatch(t *testing.T) {
	assert.True(t, Match("Region I", "Region 1"))
	assert.True(t, Match("region i", "Region I"))
	assert.True(t, Match("Region IV-A (CALABARZON)", "Region 4A"))
	assert.True(t, Match("  Region   VII ", "Region 7"))
	assert.False(t, Match("Region VII", "Region 4A"))
	assert.False(t, Match("Region IV-A", "Region IV-B"))
}

func TestMatchFreeTextNumericConvention(t *testing.T) {
	// applicants often type the numeric convention; both sides must be
	// canonicalized before comparing
	assert.True(t, Match("region 1 (Ilocos)", "Region 1"))
	assert.True(t, Match("Region 7", "Region VII"))
	assert.True(t, Match("region 4a", "Region IV-A"))
	assert.False(t, Match("region 2 (Cagayan Valley)", "Region 1"))
}

func TestMatchUnrestricted(t *testing.T) {
	assert.True(t, Match("Region VII", "ALL"))
	assert.True(t, Match("anything at all", "all"))
}
