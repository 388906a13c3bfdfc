package learning

import (
	"testing"

	"coursefront/models"

	"github.com/stretchr/testify/assert"
)

func TestProgressAfterWatching(t *testing.T) {
	videos := videosWithOrders(3, 1, 2, 4)

	assert.Equal(t, 25.0, ProgressAfterWatching(videos, 101, 0))
	assert.Equal(t, 75.0, ProgressAfterWatching(videos, 103, 0))
	assert.Equal(t, 100.0, ProgressAfterWatching(videos, 104, 30))
	// never goes backwards
	assert.Equal(t, 75.0, ProgressAfterWatching(videos, 101, 75))
	// unknown video keeps progress
	assert.Equal(t, 40.0, ProgressAfterWatching(videos, 999, 40))
	assert.Equal(t, 40.0, ProgressAfterWatching(nil, 1, 40))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]models.Enrollment{{Progress: 100}, {Progress: 50}, {Progress: 0}})

	assert.Equal(t, 3, s.Enrolled)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 50.0, s.Average)
	assert.Equal(t, ProgressSummary{}, Summarize(nil))
}
