package seed_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growmygarden/verdant/pkg/seed"
)

const sample = `
plants:
  - name: Monstera
    scientificName: Monstera deliciosa
    species: Araceae
    notes: Near the window.
    watering: 168h
    fertilizing: P30D
  - name: Basil
    trimming: 336h
`

func TestLoad(t *testing.T) {
	plants, err := seed.Load(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, plants, 2)

	monstera := plants[0]
	assert.Equal(t, "Monstera", monstera.Name)
	assert.Equal(t, "Monstera deliciosa", monstera.ScientificName)
	assert.Equal(t, 168*time.Hour, monstera.WateringEvery)
	assert.Equal(t, 30*24*time.Hour, monstera.FertilizingEvery, "ISO-8601 intervals are accepted")
	assert.Zero(t, monstera.TrimmingEvery)
	assert.NotEqual(t, plants[0].ID, plants[1].ID)

	basil := plants[1]
	assert.Equal(t, 336*time.Hour, basil.TrimmingEvery)
}

func TestLoadGeneratesFreshIdentifiers(t *testing.T) {
	first, err := seed.Load(strings.NewReader(sample))
	require.NoError(t, err)
	second, err := seed.Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.NotEqual(t, first[0].ID, second[0].ID, "an import never overwrites a previous one")
}

func TestLoadRejectsNamelessPlant(t *testing.T) {
	_, err := seed.Load(strings.NewReader("plants:\n  - notes: anonymous\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestLoadRejectsBadInterval(t *testing.T) {
	_, err := seed.Load(strings.NewReader("plants:\n  - name: X\n    watering: soonish\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watering")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := seed.Load(strings.NewReader("plants:\n  - name: X\n    wattering: 1h\n"))
	assert.Error(t, err, "typos in seed files should fail loudly")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := seed.LoadFile(t.TempDir() + "/none.yaml")
	assert.Error(t, err)
}
