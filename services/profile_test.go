package services

import (
	"context"
	"testing"

	"coursefront/apierr"
	"coursefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLoad(t *testing.T) {
	cat := func(id uint) *models.CategoryRef { return &models.CategoryRef{ID: id} }
	api := &fakeAPI{
		enrollments: []models.Enrollment{
			{ID: 1, Course: models.CourseRef{ID: 1}, Progress: 100},
			{ID: 2, Course: models.CourseRef{ID: 2}, Progress: 50},
		},
		catalog: []models.Course{
			{ID: 1, Title: "A", Category: cat(10)},
			{ID: 2, Title: "B", Category: cat(20)},
			{ID: 3, Title: "C", Category: cat(10)},
			{ID: 4, Title: "D", Category: cat(30)},
			{ID: 5, Title: "E", Category: cat(20)},
			{ID: 6, Title: "F", Category: cat(10)},
			{ID: 7, Title: "G", Category: cat(20)},
		},
	}

	page, err := NewProfileService(nil).Load(context.Background(), api)
	require.NoError(t, err)

	var recIDs []uint
	for _, c := range page.Recommendations {
		recIDs = append(recIDs, c.ID)
	}
	assert.Equal(t, []uint{3, 5, 6}, recIDs)
	assert.Equal(t, "B", page.Course(api.enrollments[1]).Title)
	assert.Equal(t, 2, page.Summary.Enrolled)
	assert.Equal(t, 1, page.Summary.Completed)
	assert.Equal(t, float64(75), page.Summary.Average)
}

func TestProfileLoadToleratesMissingCertificates(t *testing.T) {
	api := &fakeAPI{certErr: apierr.New(apierr.KindServer, 500, "boom")}
	page, err := NewProfileService(nil).Load(context.Background(), api)
	require.NoError(t, err)
	assert.Nil(t, page.Certificates)
}
