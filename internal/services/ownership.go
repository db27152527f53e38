package services

import "github.com/devtrail/bootcamp-service/internal/models"

// canMutate reports whether the actor may modify a resource owned by
// ownerID. Admins may modify anything; everyone else only their own.
func canMutate(actor *models.User, ownerID uint) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == ownerID
}
