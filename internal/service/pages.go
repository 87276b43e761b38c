package service

import (
	"context"
	"log/slog"

	"pawcircle/internal/crud"
	"pawcircle/internal/loader"
	"pawcircle/internal/models"
)

const (
	// MaxPages bounds how many load-more rounds one page view may run.
	MaxPages = 10
	// HomePostLimit is the number of recent posts on the home page.
	HomePostLimit = 50
	// AlertLimit is the number of alerts on the emergency page.
	AlertLimit = 20
)

// ListView is a list page after its loads. Degraded is set when a fetch failed
// and the view shows the last good state.
type ListView[T any] struct {
	loader.ListState[T]
	Degraded bool `json:"degraded,omitempty"`
}

// FeedView is the community feed narrowed by location.
type FeedView struct {
	ListView[*models.CommunityPost]
	Location string `json:"location,omitempty"`
	Filtered bool   `json:"filtered"`
	// Total is the number of posts held before the location filter.
	Total int `json:"total"`
}

// WikiView is the pet wiki narrowed by category.
type WikiView struct {
	ListView[*models.PetWikiArticle]
	Category   string   `json:"category,omitempty"`
	Categories []string `json:"categories"`
}

// Pages renders the list and detail views of every collection.
type Pages struct {
	catalog  *Catalog
	pageSize int
	logger   *slog.Logger
}

func NewPages(catalog *Catalog, pageSize int, logger *slog.Logger) *Pages {
	if pageSize <= 0 {
		pageSize = loader.DefaultPageSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pages{catalog: catalog, pageSize: pageSize, logger: logger}
}

// ClampPages keeps a requested page count within 1..MaxPages.
func ClampPages(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxPages {
		return MaxPages
	}
	return n
}

// LoadList runs a fresh list loader for pages rounds. A failed fetch is logged by
// the loader and reported through Degraded; only a cancelled request is an error.
func LoadList[T models.Entity](ctx context.Context, store crud.Store[T], pageSize, pages int, logger *slog.Logger) (ListView[T], error) {
	l := loader.NewListLoader(store, loader.WithPageSize(pageSize), loader.WithLogger(logger))
	defer l.Close()

	err := l.LoadPages(ctx, ClampPages(pages))
	view := ListView[T]{ListState: l.State(), Degraded: err != nil}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return view, ctxErr
	}
	return view, nil
}

// LoadDetail fetches one record with a fresh detail loader.
func LoadDetail[T models.Entity](ctx context.Context, store crud.Store[T], id string, logger *slog.Logger) loader.DetailState[T] {
	d := loader.NewDetailLoader(store, loader.WithLogger(logger))
	defer d.Close()
	return d.Load(ctx, id)
}

func (p *Pages) Home(ctx context.Context) (ListView[*models.CommunityPost], error) {
	return LoadList(ctx, p.catalog.Posts, HomePostLimit, 1, p.logger)
}

func (p *Pages) CommunityFeed(ctx context.Context, pages int, location string) (FeedView, error) {
	view, err := LoadList(ctx, p.catalog.Posts, p.pageSize, pages, p.logger)
	feed := FeedView{ListView: view, Location: location, Total: len(view.Items), Filtered: location != ""}
	feed.Items = loader.Filter(view.Items, location, func(post *models.CommunityPost) string { return post.LocationTag })
	return feed, err
}

func (p *Pages) PetWiki(ctx context.Context, pages int, category string) (WikiView, error) {
	view, err := LoadList(ctx, p.catalog.Articles, p.pageSize, pages, p.logger)
	byCategory := func(a *models.PetWikiArticle) string { return a.Category }
	wiki := WikiView{
		ListView:   view,
		Category:   category,
		Categories: loader.Distinct(view.Items, byCategory),
	}
	wiki.Items = loader.Filter(view.Items, category, byCategory)
	return wiki, err
}

// EmergencyAlerts loads the most recent alerts. The page has no load more.
func (p *Pages) EmergencyAlerts(ctx context.Context) (ListView[*models.EmergencyAlert], error) {
	view, err := LoadList(ctx, p.catalog.Alerts, AlertLimit, 1, p.logger)
	view.HasNext = false
	return view, err
}

func (p *Pages) NeighbourhoodCircles(ctx context.Context, pages int) (ListView[*models.NeighbourhoodCircle], error) {
	return LoadList(ctx, p.catalog.Circles, p.pageSize, pages, p.logger)
}

func (p *Pages) BreedClubs(ctx context.Context, pages int) (ListView[*models.BreedClub], error) {
	return LoadList(ctx, p.catalog.Clubs, p.pageSize, pages, p.logger)
}

func (p *Pages) RescueDirectory(ctx context.Context, pages int) (ListView[*models.RescueOrganization], error) {
	return LoadList(ctx, p.catalog.Rescues, p.pageSize, pages, p.logger)
}

func (p *Pages) Events(ctx context.Context, pages int) (ListView[*models.Event], error) {
	return LoadList(ctx, p.catalog.Events, p.pageSize, pages, p.logger)
}

func (p *Pages) Challenges(ctx context.Context, pages int) (ListView[*models.Challenge], error) {
	return LoadList(ctx, p.catalog.Challenges, p.pageSize, pages, p.logger)
}

func (p *Pages) Post(ctx context.Context, id string) loader.DetailState[*models.CommunityPost] {
	return LoadDetail(ctx, p.catalog.Posts, id, p.logger)
}

func (p *Pages) Circle(ctx context.Context, id string) loader.DetailState[*models.NeighbourhoodCircle] {
	return LoadDetail(ctx, p.catalog.Circles, id, p.logger)
}

func (p *Pages) Club(ctx context.Context, id string) loader.DetailState[*models.BreedClub] {
	return LoadDetail(ctx, p.catalog.Clubs, id, p.logger)
}

func (p *Pages) Article(ctx context.Context, id string) loader.DetailState[*models.PetWikiArticle] {
	return LoadDetail(ctx, p.catalog.Articles, id, p.logger)
}

func (p *Pages) Rescue(ctx context.Context, id string) loader.DetailState[*models.RescueOrganization] {
	return LoadDetail(ctx, p.catalog.Rescues, id, p.logger)
}

func (p *Pages) Event(ctx context.Context, id string) loader.DetailState[*models.Event] {
	return LoadDetail(ctx, p.catalog.Events, id, p.logger)
}

func (p *Pages) Challenge(ctx context.Context, id string) loader.DetailState[*models.Challenge] {
	return LoadDetail(ctx, p.catalog.Challenges, id, p.logger)
}
