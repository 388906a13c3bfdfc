package models

import (
	"bytes"
	"encoding/json"
)

// CourseRef is the course side of an enrollment, certificate or feedback.
// The API sends either the id alone or the whole course.
type CourseRef struct {
	ID     uint
	Course *Course
}

func (c *CourseRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var course Course
		if err := json.Unmarshal(data, &course); err != nil {
			return err
		}
		c.ID, c.Course = course.ID, &course
		return nil
	}
	var id Ref
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	c.ID, c.Course = uint(id), nil
	return nil
}

func (c CourseRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ID)
}

type Enrollment struct {
	ID               uint      `json:"id"`
	Course           CourseRef `json:"course"`
	CourseTitle      string    `json:"course_title,omitempty"`
	CourseThumbnail  string    `json:"course_thumbnail,omitempty"`
	Progress         float64   `json:"progress"`
	LastWatchedVideo *uint     `json:"last_watched_video"`
	EnrolledAt       string    `json:"enrolled_at,omitempty"`
}

// CourseID returns the id of the enrolled course
func (e Enrollment) CourseID() uint {
	return e.Course.ID
}

// Details merges the nested course (if any) with the denormalized fields
func (e Enrollment) Details() Course {
	var course Course
	if e.Course.Course != nil {
		course = *e.Course.Course
	}
	course.ID = e.Course.ID
	if course.Title == "" {
		course.Title = e.CourseTitle
	}
	if course.Thumbnail == "" {
		course.Thumbnail = e.CourseThumbnail
	}
	return course
}

// IsComplete is true once the recorded progress reaches 100
func (e Enrollment) IsComplete() bool {
	return e.Progress >= 100
}
