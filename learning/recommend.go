package learning

import "coursefront/models"

const MaxRecommendations = 3

// Recommend picks catalog courses the user is not enrolled in whose category
// matches one of the enrolled courses, keeping catalog order.
// Enrolled categories are read from the enrollment itself and, when it only
// carries an id, from the catalog entry of that course.
func Recommend(enrollments []models.Enrollment, catalog []models.Course) []models.Course {
	enrolled := make(map[uint]bool, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.CourseID()] = true
	}

	categories := map[uint]bool{}
	for _, e := range enrollments {
		if id := e.Details().CategoryID(); id != 0 {
			categories[id] = true
		}
	}
	for _, c := range catalog {
		if enrolled[c.ID] && c.CategoryID() != 0 {
			categories[c.CategoryID()] = true
		}
	}

	recs := make([]models.Course, 0, MaxRecommendations)
	for _, c := range catalog {
		if len(recs) == MaxRecommendations {
			break
		}
		if enrolled[c.ID] || c.CategoryID() == 0 || !categories[c.CategoryID()] {
			continue
		}
		recs = append(recs, c)
	}
	return recs
}
