package validation

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"pawcircle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestRequired(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Required(Field{"a", "x"}, Field{"b", " y "}))

	err := Required(Field{"a", "  "}, Field{"b", "y"})
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, "a is required", appErr.Message)

	err = Required(Field{"a", ""}, Field{"b", "\t"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "a, b are required", appErr.Message)
}

func TestValidateCollectionName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "communityposts", false},
		{"Digits", "events2026", false},
		{"Uppercase", "Events", true},
		{"Path Traversal", "../users", true},
		{"Too Short", "e", true},
		{"Leading Digit", "1events", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCollectionName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRecordID(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateRecordID("3f2c1a9e-6b1d-4c1e-9f5e-1a2b3c4d5e6f"))
	assert.NoError(t, ValidateRecordID("seed_rescue_01"))
	assert.Error(t, ValidateRecordID(""))
	assert.Error(t, ValidateRecordID("a/b"))
	assert.NoError(t, ValidateRecordID(strings.Repeat("a", MaxRecordIDLength)))
	assert.Error(t, ValidateRecordID(strings.Repeat("a", MaxRecordIDLength+1)))
}

func TestRecordIDFitsColumn(t *testing.T) {
	t.Parallel()
	s, err := schema.Parse(&models.CommunityPost{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	require.NotNil(t, s.PrioritizedPrimaryField)
	assert.Equal(t, MaxRecordIDLength, s.PrioritizedPrimaryField.Size)
}

func TestDraftValidators(t *testing.T) {
	t.Parallel()
	assert.Error(t, ValidatePost(&models.CommunityPost{}))
	assert.NoError(t, ValidatePost(&models.CommunityPost{PostContent: "Lost a glove at the dog park"}))

	assert.Error(t, ValidateArticle(&models.PetWikiArticle{ArticleTitle: "Feeding kittens"}))
	assert.NoError(t, ValidateArticle(&models.PetWikiArticle{ArticleTitle: "Feeding kittens", ArticleContent: "Small meals."}))

	alert := &models.EmergencyAlert{PetName: "Mochi", LastSeenLocation: "Elm St", EmergencyDescription: "Escaped"}
	assert.Error(t, ValidateAlert(alert))
	alert.ContactInformation = "555-0101"
	assert.NoError(t, ValidateAlert(alert))
}
