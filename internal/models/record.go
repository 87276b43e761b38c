// Package models contains the record types stored in each pawcircle collection.
package models

import "time"

// Collection names as they appear in the content store.
const (
	CollectionCommunityPosts       = "communityposts"
	CollectionEmergencyAlerts      = "emergencyalerts"
	CollectionEvents               = "events"
	CollectionNeighbourhoodCircles = "neighbourhoodcircles"
	CollectionPetWikiArticles      = "petwikiarticles"
	CollectionRescueDirectory      = "rescuengodirectory"
	CollectionBreedClubs           = "speciesbreedclubs"
	CollectionChallenges           = "challengestrends"
	CollectionUserProfiles         = "userprofiles"
)

// Placeholder images attached to records created without an upload.
const (
	PlaceholderPostImage    = "https://static.wixstatic.com/media/9c23d6_02872478ef724f67a6bcf3664d1b3445~mv2.png?originWidth=576&originHeight=384"
	PlaceholderArticleImage = "https://static.wixstatic.com/media/9c23d6_341546b1e664431aa8bca44e614725e8~mv2.png?originWidth=576&originHeight=384"
	PlaceholderAlertImage   = "https://static.wixstatic.com/media/9c23d6_8eb0272e86d94f4da85b0d2bc2d0f4ec~mv2.png?originWidth=384&originHeight=192"
)

// Entity is implemented by every record type held in a collection.
type Entity interface {
	Collection() string
	GetID() string
	SetID(id string)
	// Touch stamps creation and update times for stores that do not do it themselves.
	Touch(now time.Time)
	// Stamp overwrites both timestamps with now.
	Stamp(now time.Time)
	// Filterable maps JSON field names accepted as equality filters to column names.
	Filterable() map[string]string
}

// EntityPtr constrains a pointer to a record struct E that implements Entity.
// Stores use it to allocate records generically.
type EntityPtr[E any] interface {
	*E
	Entity
}

// Record carries the identity and timestamps shared by every collection.
// The ID is assigned by whoever creates the record and never changes.
type Record struct {
	ID        string    `gorm:"primaryKey;size:64" json:"_id" yaml:"_id" bson:"_id"`
	CreatedAt time.Time `gorm:"index" json:"_createdDate" yaml:"_createdDate,omitempty" bson:"_createdDate"`
	UpdatedAt time.Time `json:"_updatedDate" yaml:"_updatedDate,omitempty" bson:"_updatedDate"`
}

func (r *Record) GetID() string { return r.ID }

func (r *Record) SetID(id string) { r.ID = id }

// Stamp sets both timestamps regardless of what the record carried, so a
// submitted draft cannot choose its own place in a newest-first listing.
func (r *Record) Stamp(now time.Time) {
	r.CreatedAt = now
	r.UpdatedAt = now
}

func (r *Record) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}
