package service

import (
	"fmt"

	"gmbot/models"
)

// AuthorizationError is returned when a member's role is below the level a
// command requires.
type AuthorizationError struct {
	Required models.RoleLevel
	Actual   models.RoleLevel
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("requires role %s or higher, member has %s", e.Required, e.Actual)
}

// RequireMinimumRole checks that the member holds at least the required role.
// A nil member is treated as an unregistered USER.
func RequireMinimumRole(member *models.Member, required models.RoleLevel) error {
	actual := models.RoleUser
	if member != nil {
		actual = member.Role
	}
	if actual < required {
		return &AuthorizationError{Required: required, Actual: actual}
	}
	return nil
}
