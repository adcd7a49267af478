package endpoints

import (
	"database/sql"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/tanmayjain06/videotube/internal/model"
)

// fakeStore is an in-memory db.Store used by the handler tests.
type fakeStore struct {
	users       map[int]*model.User
	videos      map[int]model.Video
	playlists   map[int]model.Playlist
	memberships map[int][]int // playlist id -> ordered video ids

	nextUserID     int
	nextVideoID    int
	nextPlaylistID int

	failSearch bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[int]*model.User),
		videos:      make(map[int]model.Video),
		playlists:   make(map[int]model.Playlist),
		memberships: make(map[int][]int),
	}
}

func (f *fakeStore) addUser(username, fullName string) *model.User {
	f.nextUserID++
	u := &model.User{
		ID:        f.nextUserID,
		Username:  username,
		Email:     username + "@example.com",
		FullName:  fullName,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) CreateUser(username, email, fullName, hashedPassword string) (int, error) {
	f.nextUserID++
	f.users[f.nextUserID] = &model.User{
		ID:             f.nextUserID,
		Username:       username,
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	return f.nextUserID, nil
}

func (f *fakeStore) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByUsername(username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(id int) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeStore) UpdateUserProfile(id int, fullName string, avatar *string) error {
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.FullName = fullName
	if avatar != nil {
		u.Avatar = avatar
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) CreateVideo(title, description, videoFile, thumbnail string, duration float64, owner int, published bool) (model.Video, error) {
	f.nextVideoID++
	v := model.Video{
		ID:          f.nextVideoID,
		Title:       title,
		Description: description,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
		Duration:    duration,
		IsPublished: published,
		Owner:       owner,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.videos[v.ID] = v
	return v, nil
}

func (f *fakeStore) GetVideoByID(id int) (model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return model.Video{}, sql.ErrNoRows
	}
	return v, nil
}

func (f *fakeStore) UpdateVideo(id int, title, description, thumbnail string) (model.Video, error) {
	v, ok := f.videos[id]
	if !ok {
		return model.Video{}, sql.ErrNoRows
	}
	v.Title = title
	v.Description = description
	v.Thumbnail = thumbnail
	v.UpdatedAt = time.Now()
	f.videos[id] = v
	return v, nil
}

func (f *fakeStore) DeleteVideo(id int) error {
	delete(f.videos, id)
	return nil
}

func (f *fakeStore) TogglePublishStatus(id, owner int) (bool, error) {
	v, ok := f.videos[id]
	if !ok || v.Owner != owner {
		return false, sql.ErrNoRows
	}
	v.IsPublished = !v.IsPublished
	f.videos[id] = v
	return v.IsPublished, nil
}

func (f *fakeStore) SearchVideos(query string, owner *int, sortBy, sortOrder string, page, limit int) (model.VideoPage, error) {
	if f.failSearch {
		return model.VideoPage{}, fmt.Errorf("search unavailable")
	}

	var matched []model.VideoWithOwner
	q := strings.ToLower(query)
	for _, v := range f.videos {
		if q != "" &&
			!strings.Contains(strings.ToLower(v.Title), q) &&
			!strings.Contains(strings.ToLower(v.Description), q) {
			continue
		}
		if owner != nil && v.Owner != *owner {
			continue
		}
		row := model.VideoWithOwner{Video: v}
		if u, ok := f.users[v.Owner]; ok {
			row.OwnerUsername = u.Username
			row.OwnerFullName = u.FullName
			row.OwnerAvatar = u.Avatar
		}
		matched = append(matched, row)
	}

	asc := strings.EqualFold(sortOrder, "asc")
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "title":
			less = matched[i].Title < matched[j].Title
		default:
			if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
				less = matched[i].ID < matched[j].ID
			} else {
				less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
			}
		}
		if asc {
			return less
		}
		return !less
	})

	if page < 1 {
		page = 1
	}
	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return model.VideoPage{
		Videos:     matched[start:end],
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

func (f *fakeStore) CreatePlaylist(name, description string, owner int) (model.Playlist, error) {
	f.nextPlaylistID++
	p := model.Playlist{
		ID:          f.nextPlaylistID,
		Name:        name,
		Description: description,
		Owner:       owner,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.playlists[p.ID] = p
	return p, nil
}

func (f *fakeStore) GetPlaylistByID(id int) (model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	for _, vid := range f.memberships[id] {
		if v, ok := f.videos[vid]; ok {
			p.Videos = append(p.Videos, v)
		}
	}
	return p, nil
}

func (f *fakeStore) GetPlaylistsByOwner(owner int) ([]model.Playlist, error) {
	var ids []int
	for id, p := range f.playlists {
		if p.Owner == owner {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]model.Playlist, 0, len(ids))
	for _, id := range ids {
		p, _ := f.GetPlaylistByID(id)
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) UpdatePlaylist(id int, name, description string) (model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	f.playlists[id] = p
	return p, nil
}

func (f *fakeStore) DeletePlaylist(id int) error {
	delete(f.playlists, id)
	delete(f.memberships, id)
	return nil
}

func (f *fakeStore) AddVideoToPlaylist(playlistID, videoID int) error {
	for _, vid := range f.memberships[playlistID] {
		if vid == videoID {
			return fmt.Errorf("duplicate membership")
		}
	}
	f.memberships[playlistID] = append(f.memberships[playlistID], videoID)
	return nil
}

func (f *fakeStore) GetPlaylistContaining(playlistID, videoID int) (model.Playlist, error) {
	p, ok := f.playlists[playlistID]
	if !ok {
		return model.Playlist{}, sql.ErrNoRows
	}
	for _, vid := range f.memberships[playlistID] {
		if vid == videoID {
			return p, nil
		}
	}
	return model.Playlist{}, sql.ErrNoRows
}

func (f *fakeStore) RemoveVideoFromPlaylist(playlistID, videoID int) error {
	members := f.memberships[playlistID]
	for i, vid := range members {
		if vid == videoID {
			f.memberships[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeStorage is an in-memory media store.
type fakeStorage struct {
	saved      []string
	deleted    []string
	failSave   bool
	failDelete map[string]bool

	nextID int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{failDelete: make(map[string]bool)}
}

func (f *fakeStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	if f.failSave {
		return "", fmt.Errorf("upload rejected")
	}
	f.nextID++
	url := fmt.Sprintf("mem://media/%d_%s", f.nextID, filename)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStorage) DeleteFile(url string) error {
	if f.failDelete[url] {
		return fmt.Errorf("delete rejected")
	}
	f.deleted = append(f.deleted, url)
	return nil
}
