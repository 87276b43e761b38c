// Package service assembles the record stores and implements the page-level views
// on top of the loaders.
package service

import (
	"fmt"

	"pawcircle/internal/cache"
	"pawcircle/internal/crud"
	"pawcircle/internal/models"
	"pawcircle/internal/repository"
	"pawcircle/internal/store/mongostore"
	"pawcircle/internal/store/remote"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Catalog holds a typed store for every collection.
type Catalog struct {
	Registry   *crud.Registry
	Posts      crud.Store[*models.CommunityPost]
	Articles   crud.Store[*models.PetWikiArticle]
	Alerts     crud.Store[*models.EmergencyAlert]
	Events     crud.Store[*models.Event]
	Circles    crud.Store[*models.NeighbourhoodCircle]
	Clubs      crud.Store[*models.BreedClub]
	Rescues    crud.Store[*models.RescueOrganization]
	Challenges crud.Store[*models.Challenge]
	Profiles   crud.Store[*models.UserProfile]
}

// NewCatalog resolves every collection from r.
func NewCatalog(r *crud.Registry) (*Catalog, error) {
	c := &Catalog{Registry: r}
	var err error
	if c.Posts, err = crud.Lookup[*models.CommunityPost](r, models.CollectionCommunityPosts); err != nil {
		return nil, err
	}
	if c.Articles, err = crud.Lookup[*models.PetWikiArticle](r, models.CollectionPetWikiArticles); err != nil {
		return nil, err
	}
	if c.Alerts, err = crud.Lookup[*models.EmergencyAlert](r, models.CollectionEmergencyAlerts); err != nil {
		return nil, err
	}
	if c.Events, err = crud.Lookup[*models.Event](r, models.CollectionEvents); err != nil {
		return nil, err
	}
	if c.Circles, err = crud.Lookup[*models.NeighbourhoodCircle](r, models.CollectionNeighbourhoodCircles); err != nil {
		return nil, err
	}
	if c.Clubs, err = crud.Lookup[*models.BreedClub](r, models.CollectionBreedClubs); err != nil {
		return nil, err
	}
	if c.Rescues, err = crud.Lookup[*models.RescueOrganization](r, models.CollectionRescueDirectory); err != nil {
		return nil, err
	}
	if c.Challenges, err = crud.Lookup[*models.Challenge](r, models.CollectionChallenges); err != nil {
		return nil, err
	}
	if c.Profiles, err = crud.Lookup[*models.UserProfile](r, models.CollectionUserProfiles); err != nil {
		return nil, err
	}
	return c, nil
}

func registerSQL[E any, T models.EntityPtr[E]](r *crud.Registry, db *gorm.DB, c *cache.Cache) error {
	s, err := repository.NewCollection[E, T](db, c)
	if err != nil {
		return err
	}
	crud.Register[T](r, s)
	return nil
}

// NewSQLRegistry registers a GORM store for every collection. c may be nil.
func NewSQLRegistry(db *gorm.DB, c *cache.Cache) (*crud.Registry, error) {
	r := crud.NewRegistry()
	for _, register := range []func() error{
		func() error { return registerSQL[models.CommunityPost](r, db, c) },
		func() error { return registerSQL[models.PetWikiArticle](r, db, c) },
		func() error { return registerSQL[models.EmergencyAlert](r, db, c) },
		func() error { return registerSQL[models.Event](r, db, c) },
		func() error { return registerSQL[models.NeighbourhoodCircle](r, db, c) },
		func() error { return registerSQL[models.BreedClub](r, db, c) },
		func() error { return registerSQL[models.RescueOrganization](r, db, c) },
		func() error { return registerSQL[models.Challenge](r, db, c) },
		func() error { return registerSQL[models.UserProfile](r, db, c) },
	} {
		if err := register(); err != nil {
			return nil, fmt.Errorf("register sql store: %w", err)
		}
	}
	return r, nil
}

// NewMongoRegistry registers a Mongo store for every collection.
func NewMongoRegistry(db *mongo.Database) *crud.Registry {
	r := crud.NewRegistry()
	crud.Register[*models.CommunityPost](r, mongostore.NewCollection[models.CommunityPost](db))
	crud.Register[*models.PetWikiArticle](r, mongostore.NewCollection[models.PetWikiArticle](db))
	crud.Register[*models.EmergencyAlert](r, mongostore.NewCollection[models.EmergencyAlert](db))
	crud.Register[*models.Event](r, mongostore.NewCollection[models.Event](db))
	crud.Register[*models.NeighbourhoodCircle](r, mongostore.NewCollection[models.NeighbourhoodCircle](db))
	crud.Register[*models.BreedClub](r, mongostore.NewCollection[models.BreedClub](db))
	crud.Register[*models.RescueOrganization](r, mongostore.NewCollection[models.RescueOrganization](db))
	crud.Register[*models.Challenge](r, mongostore.NewCollection[models.Challenge](db))
	crud.Register[*models.UserProfile](r, mongostore.NewCollection[models.UserProfile](db))
	return r
}

// NewRemoteRegistry registers a hosted-service store for every collection.
func NewRemoteRegistry(client *remote.Client) *crud.Registry {
	r := crud.NewRegistry()
	crud.Register[*models.CommunityPost](r, remote.NewCollection[models.CommunityPost](client))
	crud.Register[*models.PetWikiArticle](r, remote.NewCollection[models.PetWikiArticle](client))
	crud.Register[*models.EmergencyAlert](r, remote.NewCollection[models.EmergencyAlert](client))
	crud.Register[*models.Event](r, remote.NewCollection[models.Event](client))
	crud.Register[*models.NeighbourhoodCircle](r, remote.NewCollection[models.NeighbourhoodCircle](client))
	crud.Register[*models.BreedClub](r, remote.NewCollection[models.BreedClub](client))
	crud.Register[*models.RescueOrganization](r, remote.NewCollection[models.RescueOrganization](client))
	crud.Register[*models.Challenge](r, remote.NewCollection[models.Challenge](client))
	crud.Register[*models.UserProfile](r, remote.NewCollection[models.UserProfile](client))
	return r
}
