package models

import "strings"

// Project is one entry of the static project list
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
	Link        string   `json:"link,omitempty"`
}

// HasLink reports whether the project points somewhere
func (p Project) HasLink() bool {
	return strings.TrimSpace(p.Link) != ""
}

// TechLine joins the tech tags for single-line display
func (p Project) TechLine() string {
	return strings.Join(p.Tech, " · ")
}
