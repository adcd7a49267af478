// exposes a Store interface that is passed to API controllers
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/tanmayjain06/videotube/internal/model"
)

type Store interface {
	// user functions
	CreateUser(username, email, fullName, hashedPassword string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, fullName string, avatar *string) error

	// video functions
	CreateVideo(title, description, videoFile, thumbnail string, duration float64, owner int, published bool) (model.Video, error)
	GetVideoByID(id int) (model.Video, error)
	UpdateVideo(id int, title, description, thumbnail string) (model.Video, error)
	DeleteVideo(id int) error
	TogglePublishStatus(id, owner int) (bool, error)
	SearchVideos(query string, owner *int, sortBy, sortOrder string, page, limit int) (model.VideoPage, error)

	// playlist functions
	CreatePlaylist(name, description string, owner int) (model.Playlist, error)
	GetPlaylistByID(id int) (model.Playlist, error)
	GetPlaylistsByOwner(owner int) ([]model.Playlist, error)
	UpdatePlaylist(id int, name, description string) (model.Playlist, error)
	DeletePlaylist(id int) error
	AddVideoToPlaylist(playlistID, videoID int) error
	GetPlaylistContaining(playlistID, videoID int) (model.Playlist, error)
	RemoveVideoFromPlaylist(playlistID, videoID int) error
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(db *sqlx.DB) Store {
	return &pgStore{db: db}
}
