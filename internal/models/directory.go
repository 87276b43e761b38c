package models

import "time"

// Event is a scheduled community meetup.
type Event struct {
	Record        `bson:",inline"`
	EventTitle    string     `gorm:"size:200" json:"eventTitle,omitempty" bson:"eventTitle,omitempty"`
	EventDateTime *time.Time `json:"eventDateTime,omitempty" bson:"eventDateTime,omitempty"`
	Location      string     `gorm:"size:200;index" json:"location,omitempty" bson:"location,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty" bson:"description,omitempty"`
	EventImage    string     `json:"eventImage,omitempty" bson:"eventImage,omitempty"`
}

func (Event) TableName() string  { return CollectionEvents }
func (Event) Collection() string { return CollectionEvents }

func (Event) Filterable() map[string]string {
	return map[string]string{"location": "location"}
}

// NeighbourhoodCircle is a local group of pet owners.
type NeighbourhoodCircle struct {
	Record                `bson:",inline"`
	CircleName            string `gorm:"size:120" json:"circleName,omitempty" bson:"circleName,omitempty"`
	NeighbourhoodLocation string `gorm:"size:200;index" json:"neighbourhoodLocation,omitempty" bson:"neighbourhoodLocation,omitempty"`
	Description           string `gorm:"type:text" json:"description,omitempty" bson:"description,omitempty"`
	CoverImage            string `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	MemberCount           *int   `json:"memberCount,omitempty" bson:"memberCount,omitempty"`
}

func (NeighbourhoodCircle) TableName() string  { return CollectionNeighbourhoodCircles }
func (NeighbourhoodCircle) Collection() string { return CollectionNeighbourhoodCircles }

func (NeighbourhoodCircle) Filterable() map[string]string {
	return map[string]string{"neighbourhoodLocation": "neighbourhood_location"}
}

// BreedClub gathers owners of one species or breed.
type BreedClub struct {
	Record             `bson:",inline"`
	ClubName           string     `gorm:"size:120" json:"clubName,omitempty" bson:"clubName,omitempty"`
	TargetSpeciesBreed string     `gorm:"size:120;index" json:"targetSpeciesBreed,omitempty" bson:"targetSpeciesBreed,omitempty"`
	Description        string     `gorm:"type:text" json:"description,omitempty" bson:"description,omitempty"`
	ClubImage          string     `json:"clubImage,omitempty" bson:"clubImage,omitempty"`
	IsPublic           *bool      `json:"isPublic,omitempty" bson:"isPublic,omitempty"`
	CreationDate       *time.Time `json:"creationDate,omitempty" bson:"creationDate,omitempty"`
}

func (BreedClub) TableName() string  { return CollectionBreedClubs }
func (BreedClub) Collection() string { return CollectionBreedClubs }

func (BreedClub) Filterable() map[string]string {
	return map[string]string{
		"targetSpeciesBreed": "target_species_breed",
		"isPublic":           "is_public",
	}
}

// RescueOrganization is an entry in the rescue NGO directory.
type RescueOrganization struct {
	Record             `yaml:",inline" bson:",inline"`
	OrganizationName   string `gorm:"size:200" json:"organizationName,omitempty" yaml:"organizationName" bson:"organizationName,omitempty"`
	LocationAddress    string `gorm:"size:255" json:"locationAddress,omitempty" yaml:"locationAddress" bson:"locationAddress,omitempty"`
	ContactEmail       string `gorm:"size:200" json:"contactEmail,omitempty" yaml:"contactEmail" bson:"contactEmail,omitempty"`
	ContactPhone       string `gorm:"size:50" json:"contactPhone,omitempty" yaml:"contactPhone" bson:"contactPhone,omitempty"`
	WebsiteURL         string `gorm:"column:website_url" json:"websiteUrl,omitempty" yaml:"websiteUrl" bson:"websiteUrl,omitempty"`
	MissionDescription string `gorm:"type:text" json:"missionDescription,omitempty" yaml:"missionDescription" bson:"missionDescription,omitempty"`
	OrganizationLogo   string `json:"organizationLogo,omitempty" yaml:"organizationLogo" bson:"organizationLogo,omitempty"`
}

func (RescueOrganization) TableName() string  { return CollectionRescueDirectory }
func (RescueOrganization) Collection() string { return CollectionRescueDirectory }

func (RescueOrganization) Filterable() map[string]string {
	return map[string]string{"locationAddress": "location_address"}
}

// Challenge is a community challenge or trend.
type Challenge struct {
	Record           `yaml:",inline" bson:",inline"`
	ChallengeTitle   string `gorm:"size:200" json:"challengeTitle,omitempty" yaml:"challengeTitle" bson:"challengeTitle,omitempty"`
	Description      string `gorm:"type:text" json:"description,omitempty" yaml:"description" bson:"description,omitempty"`
	Rules            string `gorm:"type:text" json:"rules,omitempty" yaml:"rules" bson:"rules,omitempty"`
	Hashtag          string `gorm:"size:100;index" json:"hashtag,omitempty" yaml:"hashtag" bson:"hashtag,omitempty"`
	PromotionalImage string `json:"promotionalImage,omitempty" yaml:"promotionalImage" bson:"promotionalImage,omitempty"`
}

func (Challenge) TableName() string  { return CollectionChallenges }
func (Challenge) Collection() string { return CollectionChallenges }

func (Challenge) Filterable() map[string]string {
	return map[string]string{"hashtag": "hashtag"}
}

// UserProfile is the public pet profile attached to a member username.
type UserProfile struct {
	Record          `bson:",inline"`
	Username        string `gorm:"size:100;index" json:"username,omitempty" bson:"username,omitempty"`
	UserBio         string `gorm:"type:text" json:"userBio,omitempty" bson:"userBio,omitempty"`
	PetName         string `gorm:"size:100" json:"petName,omitempty" bson:"petName,omitempty"`
	PetBreedSpecies string `gorm:"size:120" json:"petBreedSpecies,omitempty" bson:"petBreedSpecies,omitempty"`
	PetPhoto        string `json:"petPhoto,omitempty" bson:"petPhoto,omitempty"`
}

func (UserProfile) TableName() string  { return CollectionUserProfiles }
func (UserProfile) Collection() string { return CollectionUserProfiles }

func (UserProfile) Filterable() map[string]string {
	return map[string]string{"username": "username"}
}
