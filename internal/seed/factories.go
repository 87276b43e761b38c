package seed

import (
	"fmt"
	"strings"
	"time"

	"pawcircle/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

var (
	neighbourhoods = []string{
		"Old Town", "Riverside", "Eastside", "Northgate", "Harbourfront",
		"Canal Quarter", "Hillcrest", "Market Square", "Greenway", "Station Row",
	}

	wikiCategories = []string{"Nutrition", "Health", "Training", "Grooming", "Adoption", models.DefaultArticleCategory}

	urgencies = []string{"HIGH", "MEDIUM", "LOW"}

	speciesBreeds = []string{
		"Corgi", "Border Collie", "Greyhound", "Maine Coon", "Sphynx",
		"Budgerigar", "Holland Lop", "Bearded Dragon", "Labrador", "Siamese",
	}
)

// Factory builds random records. It does not persist them.
type Factory struct {
	faker   *gofakeit.Faker
	now     time.Time
	maxDays int
}

// NewFactory creates a factory. The same seed yields the same records.
func NewFactory(seed int64, now time.Time, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{faker: gofakeit.New(seed), now: now, maxDays: maxDays}
}

// createdAt spreads records over the last maxDays.
func (f *Factory) createdAt() time.Time {
	back := time.Duration(f.faker.Number(0, f.maxDays*24*60)) * time.Minute
	return f.now.Add(-back).UTC()
}

func (f *Factory) record() models.Record {
	return models.Record{ID: f.faker.UUID(), CreatedAt: f.createdAt()}
}

func (f *Factory) image(kind string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%s/800/600", kind, f.faker.LetterN(8))
}

func (f *Factory) neighbourhood() string {
	return f.faker.RandomString(neighbourhoods)
}

func (f *Factory) Post() *models.CommunityPost {
	at := f.createdAt()
	p := &models.CommunityPost{
		Record:         models.Record{ID: f.faker.UUID(), CreatedAt: at},
		AuthorUsername: f.faker.Username(),
		LocationTag:    f.neighbourhood(),
		PostContent:    f.faker.Paragraph(1, 3, 12, " "),
		PostImage:      f.image("post"),
		PostDateTime:   &at,
	}
	return p
}

func (f *Factory) Article() *models.PetWikiArticle {
	at := f.createdAt()
	return &models.PetWikiArticle{
		Record:          models.Record{ID: f.faker.UUID(), CreatedAt: at},
		ArticleTitle:    strings.TrimSuffix(f.faker.Sentence(5), "."),
		ArticleContent:  f.faker.Paragraph(3, 4, 14, "\n\n"),
		Author:          f.faker.FirstName(),
		Category:        f.faker.RandomString(wikiCategories),
		FeaturedImage:   f.image("article"),
		PublicationDate: &at,
	}
}

func (f *Factory) Alert() *models.EmergencyAlert {
	return &models.EmergencyAlert{
		Record:               f.record(),
		PetName:              f.faker.PetName(),
		LastSeenLocation:     f.faker.Street() + ", " + f.neighbourhood(),
		EmergencyDescription: "Last seen wearing a " + f.faker.Color() + " collar. " + f.faker.Sentence(8),
		ContactInformation:   f.faker.Phone(),
		UrgencyStatus:        f.faker.RandomString(urgencies),
		PetPhoto:             f.image("alert"),
	}
}

func (f *Factory) Event() *models.Event {
	start := f.now.Add(time.Duration(f.faker.Number(1, 60*24)) * time.Hour).UTC()
	return &models.Event{
		Record:        f.record(),
		EventTitle:    f.faker.RandomString([]string{"Puppy Social", "Adoption Day", "Cat Cafe Meetup", "Agility Taster", "Pet First Aid Class"}) + " in " + f.neighbourhood(),
		EventDateTime: &start,
		Location:      f.neighbourhood(),
		Description:   f.faker.Paragraph(1, 3, 10, " "),
		EventImage:    f.image("event"),
	}
}

func (f *Factory) Circle() *models.NeighbourhoodCircle {
	n := f.faker.Number(5, 400)
	where := f.neighbourhood()
	return &models.NeighbourhoodCircle{
		Record:                f.record(),
		CircleName:            where + " " + f.faker.RandomString([]string{"Dog Walkers", "Cat Club", "Pet Parents", "Paw Patrol"}),
		NeighbourhoodLocation: where,
		Description:           f.faker.Sentence(14),
		CoverImage:            f.image("circle"),
		MemberCount:           &n,
	}
}

func (f *Factory) Club() *models.BreedClub {
	breed := f.faker.RandomString(speciesBreeds)
	public := f.faker.Bool()
	founded := f.createdAt().AddDate(-f.faker.Number(0, 10), 0, 0)
	return &models.BreedClub{
		Record:             f.record(),
		ClubName:           breed + " " + f.faker.RandomString([]string{"Society", "Club", "Friends", "Collective"}),
		TargetSpeciesBreed: breed,
		Description:        f.faker.Paragraph(1, 2, 12, " "),
		ClubImage:          f.image("club"),
		IsPublic:           &public,
		CreationDate:       &founded,
	}
}

func (f *Factory) Rescue() *models.RescueOrganization {
	return &models.RescueOrganization{
		Record:             f.record(),
		OrganizationName:   f.faker.LastName() + " " + f.faker.RandomString([]string{"Animal Rescue", "Pet Shelter", "Rehoming Trust"}),
		LocationAddress:    f.faker.Street() + ", " + f.neighbourhood(),
		ContactEmail:       f.faker.Email(),
		ContactPhone:       f.faker.Phone(),
		WebsiteURL:         f.faker.URL(),
		MissionDescription: f.faker.Sentence(16),
		OrganizationLogo:   f.image("rescue"),
	}
}

func (f *Factory) Challenge() *models.Challenge {
	word := f.faker.Word()
	return &models.Challenge{
		Record:           f.record(),
		ChallengeTitle:   "The " + titleCase.String(word) + " Challenge",
		Description:      f.faker.Sentence(12),
		Rules:            f.faker.Sentence(10),
		Hashtag:          "#" + strings.ReplaceAll(word, " ", "") + "Challenge",
		PromotionalImage: f.image("challenge"),
	}
}

func (f *Factory) Profile() *models.UserProfile {
	return &models.UserProfile{
		Record:          f.record(),
		Username:        f.faker.Username(),
		UserBio:         f.faker.Sentence(12),
		PetName:         f.faker.PetName(),
		PetBreedSpecies: f.faker.RandomString(speciesBreeds),
		PetPhoto:        f.image("pet"),
	}
}
