package models

import (
	"bytes"
	"encoding/json"
)

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// CategoryRef accepts either a bare category id or a nested category object
type CategoryRef struct {
	ID   uint
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var cat Category
		if err := json.Unmarshal(data, &cat); err != nil {
			return err
		}
		c.ID, c.Name = cat.ID, cat.Name
		return nil
	}
	var id Ref
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	c.ID = uint(id)
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.ID == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(c.ID)
}

type Course struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Duration     string       `json:"duration"`
	VideoCount   int          `json:"video_count"`
	Thumbnail    string       `json:"thumbnail"`
	Price        *Price       `json:"price"`
	Category     *CategoryRef `json:"category"`
	CategoryName string       `json:"category_name,omitempty"`
	IsPublished  bool         `json:"is_published"`
	IsEnrolled   bool         `json:"is_enrolled"`
}

// IsFree reports whether enrolling goes straight through the API
func (c Course) IsFree() bool {
	return c.Price == nil || *c.Price == 0
}

// CategoryID returns 0 when the course is uncategorized
func (c Course) CategoryID() uint {
	if c.Category == nil {
		return 0
	}
	return c.Category.ID
}

// CategoryLabel prefers the nested category name over the flattened one
func (c Course) CategoryLabel() string {
	if c.Category != nil && c.Category.Name != "" {
		return c.Category.Name
	}
	return c.CategoryName
}

type Video struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Order       int    `json:"order"`
	Course      Ref    `json:"course"`
	VideoURL    string `json:"video_url"`
}

type PDF struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Course      Ref    `json:"course"`
	File        string `json:"file"`
}
