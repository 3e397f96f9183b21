package service

import (
	"testing"

	"gmbot/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveResourceKind(t *testing.T) {
	cases := map[string]models.ResourceKind{
		"골드":     models.ResourceVault,
		"gold":   models.ResourceVault,
		"GOLD":   models.ResourceVault,
		"vault":  models.ResourceVault,
		"금고":     models.ResourceVault,
		"달란트":    models.ResourceTalent,
		"talent": models.ResourceTalent,
		"럭키":     models.ResourceLuckyDice,
		"lucky":  models.ResourceLuckyDice,
		" 골드 ":   models.ResourceVault,
	}

	for input, want := range cases {
		kind, ok := ResolveResourceKind(input)
		assert.True(t, ok, "expected %q to resolve", input)
		assert.Equal(t, want, kind, "input %q", input)
	}

	_, ok := ResolveResourceKind("없는재화")
	assert.False(t, ok)
}

func TestResourceDisplayName(t *testing.T) {
	assert.Equal(t, "골드", ResourceDisplayName(models.ResourceVault))
	assert.Equal(t, "달란트", ResourceDisplayName(models.ResourceTalent))
	assert.Equal(t, "럭키", ResourceDisplayName(models.ResourceLuckyDice))
	assert.Equal(t, "unknown", ResourceDisplayName(models.ResourceKind("unknown")))
}
