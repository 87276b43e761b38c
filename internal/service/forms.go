package service

import (
	"context"
	"log/slog"
	"sync"

	"pawcircle/internal/crud"
	"pawcircle/internal/loader"
	"pawcircle/internal/models"
	"pawcircle/internal/validation"
)

// Listing routes a successful submission redirects to.
const (
	RedirectCommunityFeed  = "/community-feed"
	RedirectPetWiki        = "/pet-wiki"
	RedirectEmergencyAlert = "/emergency-alert"
)

func PostBlueprint() loader.Blueprint[*models.CommunityPost] {
	return loader.Blueprint[*models.CommunityPost]{
		Redirect: RedirectCommunityFeed,
		Validate: validation.ValidatePost,
		Defaults: (*models.CommunityPost).ApplyDefaults,
	}
}

func ArticleBlueprint() loader.Blueprint[*models.PetWikiArticle] {
	return loader.Blueprint[*models.PetWikiArticle]{
		Redirect: RedirectPetWiki,
		Validate: validation.ValidateArticle,
		Defaults: (*models.PetWikiArticle).ApplyDefaults,
	}
}

func AlertBlueprint() loader.Blueprint[*models.EmergencyAlert] {
	return loader.Blueprint[*models.EmergencyAlert]{
		Redirect: RedirectEmergencyAlert,
		Validate: validation.ValidateAlert,
		Defaults: (*models.EmergencyAlert).ApplyDefaults,
	}
}

// Form hands out one submitter per submitting party, so a second submit from the
// same member while the first is in flight fails with loader.ErrSubmitInFlight.
type Form[T models.Entity] struct {
	store  crud.Store[T]
	bp     loader.Blueprint[T]
	opts   []loader.Option
	mu     sync.Mutex
	active map[string]*loader.Submitter[T]
}

func NewForm[T models.Entity](store crud.Store[T], bp loader.Blueprint[T], opts ...loader.Option) *Form[T] {
	return &Form[T]{store: store, bp: bp, opts: opts, active: make(map[string]*loader.Submitter[T])}
}

// Submit creates draft on behalf of party, stamping author as the record author.
func (f *Form[T]) Submit(ctx context.Context, party string, draft T, author string) (*loader.Submission[T], error) {
	f.mu.Lock()
	s, ok := f.active[party]
	if !ok {
		s = loader.NewSubmitter(f.store, f.bp, f.opts...)
		f.active[party] = s
	}
	f.mu.Unlock()

	sub, err := s.Submit(ctx, draft, author)

	f.mu.Lock()
	if !s.Submitting() && f.active[party] == s {
		delete(f.active, party)
	}
	f.mu.Unlock()
	return sub, err
}

// Forms groups the submission forms of the creatable collections.
type Forms struct {
	Posts    *Form[*models.CommunityPost]
	Articles *Form[*models.PetWikiArticle]
	Alerts   *Form[*models.EmergencyAlert]
}

func NewForms(catalog *Catalog, logger *slog.Logger) *Forms {
	return &Forms{
		Posts:    NewForm(catalog.Posts, PostBlueprint(), loader.WithLogger(logger)),
		Articles: NewForm(catalog.Articles, ArticleBlueprint(), loader.WithLogger(logger)),
		Alerts:   NewForm(catalog.Alerts, AlertBlueprint(), loader.WithLogger(logger)),
	}
}
