package seed

import (
	"embed"
	"fmt"

	"pawcircle/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

func loadFixture[T any](name string) ([]T, error) {
	raw, err := fixtureFS.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	var out []T
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return out, nil
}

// RescueFixtures returns the built-in rescue directory entries.
func RescueFixtures() ([]*models.RescueOrganization, error) {
	return loadFixture[*models.RescueOrganization]("rescues.yaml")
}

// ChallengeFixtures returns the built-in challenges.
func ChallengeFixtures() ([]*models.Challenge, error) {
	return loadFixture[*models.Challenge]("challenges.yaml")
}
