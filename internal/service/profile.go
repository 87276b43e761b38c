package service

import (
	"context"
	"log/slog"

	"pawcircle/internal/crud"
	"pawcircle/internal/member"
	"pawcircle/internal/models"
)

// ProfileView is the signed-in member's profile page.
type ProfileView struct {
	Member      *member.Member        `json:"member"`
	DisplayName string                `json:"displayName"`
	PetProfiles []*models.UserProfile `json:"petProfiles"`
}

// Profile loads the pet profiles recorded under the member's nickname.
// A lookup failure leaves the pet section empty.
func Profile(ctx context.Context, store crud.Store[*models.UserProfile], m *member.Member, logger *slog.Logger) ProfileView {
	view := ProfileView{Member: m, DisplayName: m.ProfileName(), PetProfiles: []*models.UserProfile{}}
	if m == nil || m.Nickname == "" {
		return view
	}
	page, err := store.GetAll(ctx, crud.Query{Filter: map[string]string{"username": m.Nickname}})
	if err != nil {
		logger.ErrorContext(ctx, "pet profile lookup failed",
			slog.String("member_id", m.ID),
			slog.String("error", err.Error()),
		)
		return view
	}
	view.PetProfiles = page.Items
	return view
}
