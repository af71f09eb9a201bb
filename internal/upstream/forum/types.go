package forum

import (
	"time"

	"NutriForum/internal/core/posts"
)

// postDTO is the upstream wire shape for a post. It is mapped to the
// domain's posts.Post at the client boundary so the core never sees wire
// concerns.
type postDTO struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    authorDTO `json:"author"`
	Tags      []tagDTO  `json:"tags"`
	ID        int64     `json:"id"`
	LikeCount int       `json:"likeCount"`
	Liked     bool      `json:"liked"`
}

type authorDTO struct {
	DisplayName string `json:"displayName"`
	ID          int64  `json:"id"`
}

type tagDTO struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

func toPosts(in []postDTO) []posts.Post {
	out := make([]posts.Post, len(in))
	for i, dto := range in {
		out[i] = toPost(dto)
	}
	return out
}

func toPost(dto postDTO) posts.Post {
	tags := make([]posts.Tag, len(dto.Tags))
	for i, t := range dto.Tags {
		tags[i] = posts.Tag{ID: t.ID, Name: t.Name}
	}
	return posts.Post{
		ID:        dto.ID,
		Title:     dto.Title,
		Content:   dto.Content,
		Author:    posts.Author{ID: dto.Author.ID, DisplayName: dto.Author.DisplayName},
		Tags:      tags,
		CreatedAt: dto.CreatedAt,
		LikeCount: dto.LikeCount,
		Liked:     dto.Liked,
	}
}
