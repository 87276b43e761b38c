// Package validation checks submitted drafts and request parameters.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"pawcircle/internal/models"
)

// MaxRecordIDLength matches the width of the id column.
const MaxRecordIDLength = 64

var (
	collectionNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]{1,63}$`)
	recordIDRegex       = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9_-]{1,%d}$`, MaxRecordIDLength))
)

// Field is a named draft value checked by Required.
type Field struct {
	Name  string
	Value string
}

// Required fails with a validation error naming every field that is blank after trimming.
func Required(fields ...Field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			missing = append(missing, f.Name)
		}
	}
	switch len(missing) {
	case 0:
		return nil
	case 1:
		return models.NewValidationError(fmt.Sprintf("%s is required", missing[0]))
	default:
		return models.NewValidationError(fmt.Sprintf("%s are required", strings.Join(missing, ", ")))
	}
}

// ValidateCollectionName rejects names that cannot be a collection.
func ValidateCollectionName(name string) error {
	if !collectionNameRegex.MatchString(name) {
		return models.NewValidationError("collection name must be 2-64 lowercase letters or digits")
	}
	return nil
}

// ValidateRecordID rejects ids that no store would have assigned.
func ValidateRecordID(id string) error {
	if !recordIDRegex.MatchString(id) {
		return models.NewValidationError("record id must be 1-64 letters, digits, hyphens or underscores")
	}
	return nil
}

func ValidatePost(p *models.CommunityPost) error {
	return Required(Field{"postContent", p.PostContent})
}

func ValidateArticle(a *models.PetWikiArticle) error {
	return Required(
		Field{"articleTitle", a.ArticleTitle},
		Field{"articleContent", a.ArticleContent},
	)
}

func ValidateAlert(a *models.EmergencyAlert) error {
	return Required(
		Field{"petName", a.PetName},
		Field{"lastSeenLocation", a.LastSeenLocation},
		Field{"emergencyDescription", a.EmergencyDescription},
		Field{"contactInformation", a.ContactInformation},
	)
}
