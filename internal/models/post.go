package models

import "time"

// CommunityPost is a member post in the community feed.
type CommunityPost struct {
	Record         `bson:",inline"`
	AuthorUsername string     `gorm:"size:100" json:"authorUsername,omitempty" bson:"authorUsername,omitempty"`
	LocationTag    string     `gorm:"size:120;index" json:"locationTag,omitempty" bson:"locationTag,omitempty"`
	PostContent    string     `gorm:"type:text" json:"postContent,omitempty" bson:"postContent,omitempty"`
	PostImage      string     `json:"postImage,omitempty" bson:"postImage,omitempty"`
	PostDateTime   *time.Time `json:"postDateTime,omitempty" bson:"postDateTime,omitempty"`
}

func (CommunityPost) TableName() string  { return CollectionCommunityPosts }
func (CommunityPost) Collection() string { return CollectionCommunityPosts }

func (CommunityPost) Filterable() map[string]string {
	return map[string]string{
		"authorUsername": "author_username",
		"locationTag":    "location_tag",
	}
}

// ApplyDefaults fills the fields a submitted post does not carry itself. The
// author and post time always come from the server.
func (p *CommunityPost) ApplyDefaults(author string, now time.Time) {
	p.AuthorUsername = author
	if p.PostImage == "" {
		p.PostImage = PlaceholderPostImage
	}
	p.PostDateTime = &now
}

// PetWikiArticle is a knowledge-base article in the pet wiki.
type PetWikiArticle struct {
	Record          `bson:",inline"`
	ArticleTitle    string     `gorm:"size:200" json:"articleTitle,omitempty" bson:"articleTitle,omitempty"`
	ArticleContent  string     `gorm:"type:text" json:"articleContent,omitempty" bson:"articleContent,omitempty"`
	Author          string     `gorm:"size:100" json:"author,omitempty" bson:"author,omitempty"`
	Category        string     `gorm:"size:60;index" json:"category,omitempty" bson:"category,omitempty"`
	FeaturedImage   string     `json:"featuredImage,omitempty" bson:"featuredImage,omitempty"`
	PublicationDate *time.Time `json:"publicationDate,omitempty" bson:"publicationDate,omitempty"`
}

// DefaultArticleCategory is assigned to articles submitted without a category.
const DefaultArticleCategory = "General"

func (PetWikiArticle) TableName() string  { return CollectionPetWikiArticles }
func (PetWikiArticle) Collection() string { return CollectionPetWikiArticles }

func (PetWikiArticle) Filterable() map[string]string {
	return map[string]string{
		"author":   "author",
		"category": "category",
	}
}

func (a *PetWikiArticle) ApplyDefaults(author string, now time.Time) {
	a.Author = author
	if a.Category == "" {
		a.Category = DefaultArticleCategory
	}
	if a.FeaturedImage == "" {
		a.FeaturedImage = PlaceholderArticleImage
	}
	a.PublicationDate = &now
}

// EmergencyAlert reports a lost or endangered pet.
type EmergencyAlert struct {
	Record               `bson:",inline"`
	PetName              string `gorm:"size:100" json:"petName,omitempty" bson:"petName,omitempty"`
	LastSeenLocation     string `gorm:"size:200" json:"lastSeenLocation,omitempty" bson:"lastSeenLocation,omitempty"`
	EmergencyDescription string `gorm:"type:text" json:"emergencyDescription,omitempty" bson:"emergencyDescription,omitempty"`
	ContactInformation   string `gorm:"size:200" json:"contactInformation,omitempty" bson:"contactInformation,omitempty"`
	UrgencyStatus        string `gorm:"size:20;index" json:"urgencyStatus,omitempty" bson:"urgencyStatus,omitempty"`
	PetPhoto             string `json:"petPhoto,omitempty" bson:"petPhoto,omitempty"`
}

// DefaultUrgencyStatus is assigned to alerts raised without an explicit urgency.
const DefaultUrgencyStatus = "HIGH"

func (EmergencyAlert) TableName() string  { return CollectionEmergencyAlerts }
func (EmergencyAlert) Collection() string { return CollectionEmergencyAlerts }

func (EmergencyAlert) Filterable() map[string]string {
	return map[string]string{
		"urgencyStatus":    "urgency_status",
		"lastSeenLocation": "last_seen_location",
	}
}

// ApplyDefaults fills urgency and photo. Alerts carry no author.
func (a *EmergencyAlert) ApplyDefaults(_ string, _ time.Time) {
	if a.UrgencyStatus == "" {
		a.UrgencyStatus = DefaultUrgencyStatus
	}
	if a.PetPhoto == "" {
		a.PetPhoto = PlaceholderAlertImage
	}
}
