package posts

import (
	"time"
)

// Author identifies the user who wrote a post
type Author struct {
	DisplayName string `json:"displayName"`
	ID          int64  `json:"id"`
}

// Tag is a topic label attached to a post (e.g. "recipes", "meal-prep")
type Tag struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

// Post represents a forum post as rendered to a viewer.
// LikeCount comes from the upstream server and is never client-authoritative.
// Liked is viewer-relative: it reflects the current user's own decision and
// must never be shared across usernames.
type Post struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Tags      []Tag     `json:"tags"`
	ID        int64     `json:"id"`
	LikeCount int       `json:"likeCount"`
	Liked     bool      `json:"liked"`
}

// HasTag reports whether the post carries the given tag ID
func (p *Post) HasTag(tagID int64) bool {
	for _, t := range p.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}

// clone returns a deep copy so cache internals are never aliased by callers
func (p *Post) clone() Post {
	out := *p
	if p.Tags != nil {
		out.Tags = make([]Tag, len(p.Tags))
		copy(out.Tags, p.Tags)
	}
	return out
}
