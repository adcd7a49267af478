package packets

import "time"

// RESPONSES FOR /api/v1/*

type ProfileResponse struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FullName  string  `json:"fullName"`
	Avatar    *string `json:"avatar,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type VideoResponse struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"video_file"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int       `json:"views"`
	IsPublished bool      `json:"is_published"`
	Owner       int       `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerResponse is the projected subset of the owner profile inlined into
// listing results.
type OwnerResponse struct {
	ID       int     `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"fullName"`
	Avatar   *string `json:"avatar,omitempty"`
}

type VideoListItem struct {
	VideoResponse
	OwnerDetails OwnerResponse `json:"ownerDetails"`
}

type VideoListResponse struct {
	Videos     []VideoListItem `json:"videos"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

type TogglePublishResponse struct {
	IsPublished bool `json:"is_published"`
}

type PlaylistResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Owner       int             `json:"owner"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Videos      []VideoResponse `json:"videos"`
}
