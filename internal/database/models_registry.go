package database

import "pawcircle/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.CommunityPost{},
		&models.PetWikiArticle{},
		&models.EmergencyAlert{},
		&models.Event{},
		&models.NeighbourhoodCircle{},
		&models.BreedClub{},
		&models.RescueOrganization{},
		&models.Challenge{},
		&models.UserProfile{},
	}
}
