package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLocate(t *testing.T) {
	assert.Equal(t, "Hume Hall 324 or 326", Default.Locate("Math 261"))
	assert.Equal(t, "Hume Hall 324 or 326", Default.Locate("mathematics"))
	assert.Equal(t, "Weir Hall 234", Default.Locate("CSCI 111"))
	assert.Equal(t, "", Default.Locate("Biology"))
	assert.Equal(t, "", Default.Locate(""))
}

func TestFirstRuleWins(t *testing.T) {
	table := PrefixTable{
		{Prefix: "ma", Location: "A"},
		{Prefix: "math", Location: "B"},
	}
	assert.Equal(t, "A", table.Locate("Math"))
}
