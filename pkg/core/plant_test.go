package core_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growmygarden/verdant/pkg/core"
)

func TestNewPlantAssignsFreshIdentifier(t *testing.T) {
	a := core.NewPlant("Ficus")
	b := core.NewPlant("Ficus")

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.ID.String(), a.Key())
}

func TestPlantEqual(t *testing.T) {
	base := core.NewPlant("Ficus")
	base.WateringEvery = 72 * time.Hour

	same := base
	require.True(t, base.Equal(same))

	renamed := base
	renamed.Name = "Aloe"
	assert.False(t, base.Equal(renamed))

	rescheduled := base
	rescheduled.WateringEvery = 24 * time.Hour
	assert.False(t, base.Equal(rescheduled))
}

func TestPlantEqualComparesImagesByIdentity(t *testing.T) {
	ref := core.NewImageRef()

	a := core.NewPlant("Ficus")
	b := a
	a.Image = &ref
	assert.False(t, a.Equal(b))

	copied := ref
	b.Image = &copied
	assert.True(t, a.Equal(b), "distinct pointers to the same handle compare equal")

	other := core.NewImageRef()
	b.Image = &other
	assert.False(t, a.Equal(b))
}

func TestImageRefPaths(t *testing.T) {
	ref := core.NewImageRef()

	assert.Equal(t, core.ImageDir+"/"+ref.ID.String()+".png", ref.HQPath())
	assert.Equal(t, core.ImageDir+"/"+ref.ID.String()+"_lq.png", ref.LQPath())
	assert.NotEqual(t, ref.HQPath(), ref.LQPath())
}

func TestEventString(t *testing.T) {
	e := core.Event{Type: core.EventModify, ID: "some-plant"}

	s := e.String()
	assert.True(t, strings.Contains(s, "some-plant"))
	assert.True(t, strings.Contains(s, string(core.EventModify)))
}
