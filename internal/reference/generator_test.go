package reference_test

import (
	"bytes"
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/reference"
)

var codePattern = regexp.MustCompile(`^(OF|RF|AC|AT)[0-9A-HJKMNP-TV-Z]{10}$`)

func TestGenerate_FormatAndUniqueness(t *testing.T) {
	g := reference.New("salt-1")
	seen := map[string]bool{}

	categories := []models.Category{
		models.CategoryOutboundFlight,
		models.CategoryReturnFlight,
		models.CategoryAccommodation,
		models.CategoryActivities,
	}
	for _, cat := range categories {
		for i := 0; i < 50; i++ {
			code, err := g.Generate(cat, fmt.Sprintf("item-%d", i))
			require.NoError(t, err)

			assert.Regexp(t, codePattern, code)
			assert.Equal(t, cat.ReferencePrefix(), code[:2])
			assert.False(t, seen[code], "duplicate %s", code)
			seen[code] = true
		}
	}
}

func TestGenerate_DeterministicPerSalt(t *testing.T) {
	a, err := reference.New("salt-1").Generate(models.CategoryAccommodation, "dxb-address-downtown")
	require.NoError(t, err)
	b, err := reference.New("salt-1").Generate(models.CategoryAccommodation, "dxb-address-downtown")
	require.NoError(t, err)
	c, err := reference.New("salt-2").Generate(models.CategoryAccommodation, "dxb-address-downtown")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	// First attempts always collide; later attempts hash normally.
	hash := func(data []byte) []byte {
		if bytes.HasSuffix(data, []byte("|0")) {
			return bytes.Repeat([]byte{0x42}, 32)
		}
		return reference.SHA256(data)
	}
	g := reference.New("salt", reference.WithHash(hash))

	first, err := g.Generate(models.CategoryActivities, "a1")
	require.NoError(t, err)
	second, err := g.Generate(models.CategoryActivities, "a2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerate_FailsAfterBoundedAttempts(t *testing.T) {
	constant := func([]byte) []byte { return bytes.Repeat([]byte{0x07}, 32) }
	g := reference.New("salt", reference.WithHash(constant), reference.WithMaxAttempts(3))

	_, err := g.Generate(models.CategoryActivities, "a1")
	require.NoError(t, err)

	_, err = g.Generate(models.CategoryActivities, "a2")

	var genErr *models.ReferenceGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 3, genErr.Attempts)
	assert.Equal(t, "a2", genErr.Identity)
}

func TestItineraryID(t *testing.T) {
	id := reference.ItineraryID("salt-1")

	assert.Regexp(t, `^ITN[0-9A-F]{16}$`, id)
	assert.Equal(t, id, reference.ItineraryID("salt-1"))
	assert.NotEqual(t, id, reference.ItineraryID("salt-2"))
}
