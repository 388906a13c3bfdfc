package models

type Feedback struct {
	ID        uint      `json:"id"`
	Course    CourseRef `json:"course"`
	User      Ref       `json:"user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// ReviewPhoto is a homepage testimonial image
type ReviewPhoto struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	ShowOnHomepage bool   `json:"show_on_homepage"`
	DisplayOrder   int    `json:"display_order"`
}
