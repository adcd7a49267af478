package db

import (
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tanmayjain06/videotube/internal/model"
)

func (s *pgStore) CreatePlaylist(name, description string, owner int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	INSERT INTO playlists (name, description, owner, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id, name, description, owner, created_at, updated_at;`

	if err := s.db.Get(&p, q, name, description, owner); err != nil {
		log.Error().Err(err).Msg("[db] CreatePlaylist: failed to insert playlist")
		return model.Playlist{}, err
	}
	// p.Videos defaults to nil/empty
	return p, nil
}

func (s *pgStore) GetPlaylistByID(id int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	SELECT id, name, description, owner, created_at, updated_at
	FROM playlists
	WHERE id = $1;`

	if err := s.db.Get(&p, q, id); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Int("id", id).Msg("[db] GetPlaylistByID: query failed")
		}
		return model.Playlist{}, err
	}

	videos, err := s.listPlaylistVideos(id)
	if err != nil {
		return p, err
	}
	p.Videos = videos
	return p, nil
}

func (s *pgStore) GetPlaylistsByOwner(owner int) ([]model.Playlist, error) {
	var out []model.Playlist
	const q = `
	SELECT id, name, description, owner, created_at, updated_at
	FROM playlists
	WHERE owner = $1
	ORDER BY id;`

	if err := s.db.Select(&out, q, owner); err != nil {
		log.Error().Err(err).Int("owner", owner).Msg("[db] GetPlaylistsByOwner: query failed")
		return nil, err
	}

	for i := range out {
		videos, err := s.listPlaylistVideos(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Videos = videos
	}
	return out, nil
}

// UpdatePlaylist overwrites both fields and returns the persisted row.
func (s *pgStore) UpdatePlaylist(id int, name, description string) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	UPDATE playlists
	SET
	name        = $2,
	description = $3,
	updated_at  = now()
	WHERE id = $1
	RETURNING id, name, description, owner, created_at, updated_at;`

	if err := s.db.Get(&p, q, id, name, description); err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] UpdatePlaylist: update failed")
		return model.Playlist{}, err
	}
	return p, nil
}

func (s *pgStore) DeletePlaylist(id int) error {
	_, err := s.db.Exec(`DELETE FROM playlists WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] DeletePlaylist: delete failed")
	}
	return err
}

// AddVideoToPlaylist appends the video at the end of the playlist ordering.
func (s *pgStore) AddVideoToPlaylist(playlistID, videoID int) error {
	_, err := s.db.Exec(`
		INSERT INTO playlist_videos (playlist_id, video_id, position, added_at)
		VALUES (
			$1, $2,
			COALESCE((SELECT max(position) FROM playlist_videos WHERE playlist_id = $1), 0) + 1,
			now()
		);`,
		playlistID, videoID,
	)
	if err != nil {
		log.Error().Err(err).
			Int("playlist_id", playlistID).
			Int("video_id", videoID).
			Msg("[db] AddVideoToPlaylist: insert failed")
	}
	return err
}

// GetPlaylistContaining looks a playlist up through its membership: a playlist
// that does not contain the video is indistinguishable from a missing playlist.
func (s *pgStore) GetPlaylistContaining(playlistID, videoID int) (model.Playlist, error) {
	var p model.Playlist
	const q = `
	SELECT p.id, p.name, p.description, p.owner, p.created_at, p.updated_at
	FROM playlists p
	JOIN playlist_videos pv ON pv.playlist_id = p.id
	WHERE p.id = $1 AND pv.video_id = $2;`

	err := s.db.Get(&p, q, playlistID, videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Playlist{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] GetPlaylistContaining: query failed")
	}
	return p, err
}

func (s *pgStore) RemoveVideoFromPlaylist(playlistID, videoID int) error {
	_, err := s.db.Exec(
		`DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2;`,
		playlistID, videoID,
	)
	if err != nil {
		log.Error().Err(err).
			Int("playlist_id", playlistID).
			Int("video_id", videoID).
			Msg("[db] RemoveVideoFromPlaylist: delete failed")
	}
	return err
}

func (s *pgStore) listPlaylistVideos(playlistID int) ([]model.Video, error) {
	var list []model.Video
	const q = `
	SELECT
	v.id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views,
	v.is_published, v.owner, v.created_at, v.updated_at
	FROM playlist_videos pv
	JOIN videos v ON v.id = pv.video_id
	WHERE pv.playlist_id = $1
	ORDER BY pv.position;`

	err := s.db.Select(&list, q, playlistID)
	if err != nil {
		log.Error().Err(err).Int("playlist_id", playlistID).Msg("[db] listPlaylistVideos: query failed")
	}
	return list, err
}
