package learning

import (
	"math"

	"coursefront/models"
)

// ProgressAfterWatching returns the progress once videoID is finished:
// its position in the ordered list over the total, never going backwards.
func ProgressAfterWatching(videos []models.Video, videoID uint, current float64) float64 {
	if len(videos) == 0 {
		return current
	}
	position := 0
	for _, m := range GroupIntoModules(videos) {
		for _, v := range m.Videos {
			position++
			if v.ID == videoID {
				p := math.Round(float64(position) * 100 / float64(len(videos)))
				return math.Max(current, math.Min(p, 100))
			}
		}
	}
	return current
}

type ProgressSummary struct {
	Enrolled  int
	Completed int
	Average   float64
}

func Summarize(enrollments []models.Enrollment) ProgressSummary {
	s := ProgressSummary{Enrolled: len(enrollments)}
	if s.Enrolled == 0 {
		return s
	}
	total := 0.0
	for _, e := range enrollments {
		total += e.Progress
		if e.IsComplete() {
			s.Completed++
		}
	}
	s.Average = math.Round(total/float64(s.Enrolled)*10) / 10
	return s
}
