package model

import "time"

type Video struct {
	ID          int       `db:"id"           json:"id"`
	Title       string    `db:"title"        json:"title"`
	Description string    `db:"description"  json:"description"`
	VideoFile   string    `db:"video_file"   json:"video_file"`
	Thumbnail   string    `db:"thumbnail"    json:"thumbnail"`
	Duration    float64   `db:"duration"     json:"duration"`
	Views       int       `db:"views"        json:"views"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	Owner       int       `db:"owner"        json:"owner"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

// VideoWithOwner is a listing row with the owner profile joined in.
type VideoWithOwner struct {
	Video
	OwnerUsername string  `db:"owner_username" json:"-"`
	OwnerFullName string  `db:"owner_full_name" json:"-"`
	OwnerAvatar   *string `db:"owner_avatar" json:"-"`
}

// VideoPage is one page of a video search result.
type VideoPage struct {
	Videos     []VideoWithOwner
	TotalCount int
	Page       int
	Limit      int
}

// TotalPages derives the page count from the total and the page size.
func (p VideoPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.TotalCount + p.Limit - 1) / p.Limit
}
