package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-progression/internal/pkg/idgen"
)

func TestUUIDGenerator(t *testing.T) {
	gen := idgen.NewUUID("lvl")

	first, second := gen.Generate(), gen.Generate()
	assert.True(t, strings.HasPrefix(first, "lvl_"))
	assert.NotEqual(t, first, second)
	assert.Len(t, idgen.NewUUID("").Generate(), 36)
}

func TestSequentialGenerator(t *testing.T) {
	gen := idgen.NewSequential("session")
	assert.Equal(t, "session_1", gen.Generate())
	assert.Equal(t, "session_2", gen.Generate())
	assert.Equal(t, "1", idgen.NewSequential("").Generate())
}
