package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diamondjirapat/mango-reach-management-mockup/internal/models"
)

func ptr[T any](v T) *T { return &v }

func validRequest() *models.CreateAdRequest {
	return &models.CreateAdRequest{
		ProjectName: "Project Alpha 12",
		ProjectID:   "PROJ-1234",
		Source:      "Google",
		SourceURL:   ptr("http://google.com/PROJ-1234"),
		ClickCount:  120,
		Cost:        40.5,
	}
}

func TestValidateAdRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *models.CreateAdRequest)
		wantField string
	}{
		{"valid", func(r *models.CreateAdRequest) {}, ""},
		{"valid with score", func(r *models.CreateAdRequest) { r.Score = ptr(7.5) }, ""},
		{"zero score is unset", func(r *models.CreateAdRequest) { r.Score = ptr(0.0) }, ""},
		{"max score", func(r *models.CreateAdRequest) { r.Score = ptr(10.0) }, ""},
		{"offline type", func(r *models.CreateAdRequest) { r.Type = models.AdTypeOffline }, ""},
		{"no url", func(r *models.CreateAdRequest) { r.SourceURL = nil }, ""},
		{"unknown source is allowed", func(r *models.CreateAdRequest) { r.Source = "Bluesky" }, ""},
		{"missing project name", func(r *models.CreateAdRequest) { r.ProjectName = "" }, "project_name"},
		{"missing project id", func(r *models.CreateAdRequest) { r.ProjectID = "" }, "project_id"},
		{"missing source", func(r *models.CreateAdRequest) { r.Source = "" }, "source"},
		{"negative clicks", func(r *models.CreateAdRequest) { r.ClickCount = -1 }, "click_count"},
		{"negative cost", func(r *models.CreateAdRequest) { r.Cost = -0.01 }, "cost"},
		{"score above range", func(r *models.CreateAdRequest) { r.Score = ptr(10.01) }, "score"},
		{"score below range", func(r *models.CreateAdRequest) { r.Score = ptr(-1.0) }, "score"},
		{"bad type", func(r *models.CreateAdRequest) { r.Type = "radio" }, "type"},
		{"bad url", func(r *models.CreateAdRequest) { r.SourceURL = ptr("not a url") }, "source_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := ValidateAdRequest(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
		})
	}
}

func TestValidateAdRequestNil(t *testing.T) {
	err := ValidateAdRequest(nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "body", verr.Field)
}

func TestValidationErrorsMessage(t *testing.T) {
	req := validRequest()
	req.ProjectName = ""
	req.ClickCount = -3

	err := ValidateAdRequest(req)
	require.Error(t, err)
	assert.Equal(t, "project_name: project_name is required; click_count: must be greater than or equal to 0", err.Error())
}

func TestGetHourBucket(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	in := time.Date(2026, 3, 14, 9, 26, 53, 589, loc)

	got := GetHourBucket(in)
	assert.Equal(t, time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC), got)
}
