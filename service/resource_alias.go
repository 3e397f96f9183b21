package service

import (
	"strings"

	"gmbot/models"
)

// resourceAliases maps user-typed resource names (Korean and English) onto
// resource kinds. Lookups are case-insensitive.
var resourceAliases = map[string]models.ResourceKind{
	"골드":   models.ResourceVault,
	"gold": models.ResourceVault,
	"vault": models.ResourceVault,
	"금고":   models.ResourceVault,

	"달란트":   models.ResourceTalent,
	"talent": models.ResourceTalent,

	"럭키":    models.ResourceLuckyDice,
	"lucky": models.ResourceLuckyDice,
}

// resourceDisplayNames are the names shown back to users.
var resourceDisplayNames = map[models.ResourceKind]string{
	models.ResourceVault:     "골드",
	models.ResourceTalent:    "달란트",
	models.ResourceLuckyDice: "럭키",
}

// ResolveResourceKind maps a user-typed resource name onto a kind. Returns
// false for unknown names.
func ResolveResourceKind(name string) (models.ResourceKind, bool) {
	kind, ok := resourceAliases[strings.ToLower(strings.TrimSpace(name))]
	return kind, ok
}

// ResourceDisplayName returns the user-facing name of a resource kind.
func ResourceDisplayName(kind models.ResourceKind) string {
	if name, ok := resourceDisplayNames[kind]; ok {
		return name
	}
	return string(kind)
}
