package db

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tanmayjain06/videotube/internal/model"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern makes query text match literally under ILIKE by escaping
// the pattern metacharacters and the escape character itself.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// columns a caller may sort video listings by
var videoSortColumns = map[string]string{
	"createdAt": "v.created_at",
	"title":     "v.title",
	"duration":  "v.duration",
	"views":     "v.views",
}

func (s *pgStore) CreateVideo(
	title, description, videoFile, thumbnail string,
	duration float64, owner int, published bool,
) (model.Video, error) {
	var v model.Video
	const q = `
	INSERT INTO videos
	(title, description, video_file, thumbnail, duration, views, is_published, owner, created_at, updated_at)
	VALUES
	($1,    $2,          $3,         $4,        $5,       0,     $6,           $7,    now(),      now())
	RETURNING
	id, title, description, video_file, thumbnail, duration, views, is_published, owner, created_at, updated_at;`

	if err := s.db.Get(&v, q, title, description, videoFile, thumbnail, duration, published, owner); err != nil {
		log.Error().Err(err).Msg("[db] CreateVideo: failed to insert video")
		return model.Video{}, err
	}
	return v, nil
}

func (s *pgStore) GetVideoByID(id int) (model.Video, error) {
	var v model.Video
	const q = `
	SELECT
	id, title, description, video_file, thumbnail, duration, views, is_published, owner, created_at, updated_at
	FROM videos
	WHERE id = $1;`

	err := s.db.Get(&v, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Video{}, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] GetVideoByID: query failed")
	}
	return v, err
}

// UpdateVideo overwrites the mutable content fields and returns the persisted row.
func (s *pgStore) UpdateVideo(id int, title, description, thumbnail string) (model.Video, error) {
	var v model.Video
	const q = `
	UPDATE videos
	SET
	title       = $2,
	description = $3,
	thumbnail   = $4,
	updated_at  = now()
	WHERE id = $1
	RETURNING
	id, title, description, video_file, thumbnail, duration, views, is_published, owner, created_at, updated_at;`

	if err := s.db.Get(&v, q, id, title, description, thumbnail); err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] UpdateVideo: update failed")
		return model.Video{}, err
	}
	return v, nil
}

func (s *pgStore) DeleteVideo(id int) error {
	_, err := s.db.Exec(`DELETE FROM videos WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] DeleteVideo: delete failed")
	}
	return err
}

// TogglePublishStatus flips is_published on the row matched by (id, owner) in a
// single statement. A non-owner caller observes sql.ErrNoRows, not a permission error.
func (s *pgStore) TogglePublishStatus(id, owner int) (bool, error) {
	var published bool
	const q = `
	UPDATE videos
	SET is_published = NOT is_published, updated_at = now()
	WHERE id = $1 AND owner = $2
	RETURNING is_published;`

	err := s.db.Get(&published, q, id, owner)
	if errors.Is(err, sql.ErrNoRows) {
		return false, sql.ErrNoRows
	}
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[db] TogglePublishStatus: update failed")
	}
	return published, err
}

// SearchVideos matches query as a case-insensitive substring of title or
// description, optionally filtered to one owner, joins the owner profile,
// sorts by a whitelisted column and paginates with a 1-based page.
func (s *pgStore) SearchVideos(
	query string, owner *int,
	sortBy, sortOrder string,
	page, limit int,
) (model.VideoPage, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	if query != "" {
		argCount++
		ph := "$" + strconv.Itoa(argCount)
		where += ` AND (v.title ILIKE ` + ph + ` OR v.description ILIKE ` + ph + `)`
		args = append(args, "%"+escapeLikePattern(query)+"%")
	}

	if owner != nil {
		argCount++
		where += ` AND v.owner = $` + strconv.Itoa(argCount)
		args = append(args, *owner)
	}

	var total int
	if err := s.db.Get(&total, `SELECT count(*) FROM videos v`+where, args...); err != nil {
		log.Error().Err(err).Msg("[db] SearchVideos: count query failed")
		return model.VideoPage{}, err
	}

	orderCol, ok := videoSortColumns[sortBy]
	if !ok {
		orderCol = "v.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	if page < 1 {
		page = 1
	}

	q := `
	SELECT
	v.id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views,
	v.is_published, v.owner, v.created_at, v.updated_at,
	u.username  AS owner_username,
	u.full_name AS owner_full_name,
	u.avatar    AS owner_avatar
	FROM videos v
	JOIN users u ON u.id = v.owner` +
		where +
		` ORDER BY ` + orderCol + ` ` + direction +
		` LIMIT $` + strconv.Itoa(argCount+1) +
		` OFFSET $` + strconv.Itoa(argCount+2) + `;`
	args = append(args, limit, (page-1)*limit)

	var rows []model.VideoWithOwner
	if err := s.db.Select(&rows, q, args...); err != nil {
		log.Error().Err(err).Msg("[db] SearchVideos: page query failed")
		return model.VideoPage{}, err
	}

	return model.VideoPage{
		Videos:     rows,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}
