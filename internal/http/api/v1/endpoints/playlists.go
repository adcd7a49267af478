package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tanmayjain06/videotube/internal/db"
	"github.com/tanmayjain06/videotube/internal/http/api"
	"github.com/tanmayjain06/videotube/internal/http/api/v1/packets"
	"github.com/tanmayjain06/videotube/internal/model"
)

type PlaylistController struct {
	store db.Store
}

func newPlaylistController(store db.Store) *PlaylistController {
	return &PlaylistController{store: store}
}

// PlaylistModule mounts all authenticated /playlists endpoints
func PlaylistModule(store db.Store) api.Module {
	ctl := newPlaylistController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/playlists", ctl.createPlaylist)
		c.GET("/playlists/user/:user_id", ctl.getUserPlaylists)
		c.GET("/playlists/:id", ctl.getPlaylist)
		c.PATCH("/playlists/:id", ctl.updatePlaylist)
		c.DELETE("/playlists/:id", ctl.deletePlaylist)
		c.POST("/playlists/:id/videos/:video_id", ctl.addVideo)
		c.DELETE("/playlists/:id/videos/:video_id", ctl.removeVideo)
	})
}

// createPlaylist persists a new playlist owned by the caller. The request is
// rejected only when name and description are both blank.
func (p *PlaylistController) createPlaylist(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	var req packets.CreatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("[playlist] create: bad request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if req.Name == "" && req.Description == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "name or description is required"}
	}

	pl, err := p.store.CreatePlaylist(req.Name, req.Description, user.ID)
	if err != nil {
		log.Error().Err(err).Msg("[playlist] create: could not create playlist")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}

	full, err := p.store.GetPlaylistByID(pl.ID)
	if err != nil {
		log.Error().Err(err).Int("id", pl.ID).Msg("[playlist] create: created playlist not readable")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create playlist"}
	}

	return &api.Response{
		Code:    http.StatusCreated,
		Data:    mapPlaylist(full),
		Message: "playlist created successfully",
	}, nil
}

// getUserPlaylists returns all playlists owned by the given user. An empty
// result set is a success, not a not-found.
func (p *PlaylistController) getUserPlaylists(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	ownerID, err := strconv.Atoi(ctx.Param("user_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid user id"}
	}

	all, err := p.store.GetPlaylistsByOwner(ownerID)
	if err != nil {
		log.Error().Err(err).Int("owner", ownerID).Msg("[playlist] list: could not list playlists")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch playlists"}
	}

	out := make([]packets.PlaylistResponse, len(all))
	for i, pl := range all {
		out[i] = mapPlaylist(pl)
	}

	return &api.Response{Data: out, Message: "user playlists fetched successfully"}, nil
}

// getPlaylist fetches a single playlist by ID. A malformed id and an absent
// playlist are both reported as not found.
func (p *PlaylistController) getPlaylist(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}

	pl, err := p.store.GetPlaylistByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}

	return &api.Response{Data: mapPlaylist(pl), Message: "playlist fetched successfully"}, nil
}

// addVideo appends a video to the playlist. Membership is a set: adding a
// video that is already a member is rejected with a conflict.
func (p *PlaylistController) addVideo(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	pid, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid playlist id"}
	}
	vid, err := strconv.Atoi(ctx.Param("video_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid video id"}
	}

	pl, err := p.store.GetPlaylistByID(pid)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if pl.Owner != user.ID {
		log.Warn().Int("owner", pl.Owner).Int("user", user.ID).Msg("[playlist] addVideo: forbidden")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the owner can modify this playlist"}
	}

	for _, v := range pl.Videos {
		if v.ID == vid {
			return nil, &api.APIError{Code: http.StatusConflict, Message: "video already in playlist"}
		}
	}

	if err := p.store.AddVideoToPlaylist(pid, vid); err != nil {
		log.Error().Err(err).Int("playlist_id", pid).Int("video_id", vid).Msg("[playlist] addVideo: insert failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add video to playlist"}
	}

	full, err := p.store.GetPlaylistByID(pid)
	if err != nil {
		log.Error().Err(err).Int("id", pid).Msg("[playlist] addVideo: updated playlist not readable")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not add video to playlist"}
	}

	return &api.Response{Data: mapPlaylist(full), Message: "video added to playlist"}, nil
}

// removeVideo removes a video from the playlist. The lookup is filtered to
// playlists that currently contain the video, so a playlist missing the video
// is indistinguishable from a missing playlist.
func (p *PlaylistController) removeVideo(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	pid, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid playlist id"}
	}
	vid, err := strconv.Atoi(ctx.Param("video_id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid video id"}
	}

	pl, err := p.store.GetPlaylistContaining(pid, vid)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if pl.Owner != user.ID {
		log.Warn().Int("owner", pl.Owner).Int("user", user.ID).Msg("[playlist] removeVideo: forbidden")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the owner can modify this playlist"}
	}

	if err := p.store.RemoveVideoFromPlaylist(pid, vid); err != nil {
		log.Error().Err(err).Int("playlist_id", pid).Int("video_id", vid).Msg("[playlist] removeVideo: delete failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove video from playlist"}
	}

	full, err := p.store.GetPlaylistByID(pid)
	if err != nil {
		log.Error().Err(err).Int("id", pid).Msg("[playlist] removeVideo: updated playlist not readable")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not remove video from playlist"}
	}

	return &api.Response{Data: mapPlaylist(full), Message: "video removed from playlist"}, nil
}

// updatePlaylist overwrites both fields after the ownership check. There is no
// partial update: an absent field is written as empty.
func (p *PlaylistController) updatePlaylist(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid playlist id"}
	}

	var req packets.UpdatePlaylistRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if req.Name == "" && req.Description == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "name or description is required"}
	}

	existing, err := p.store.GetPlaylistByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if existing.Owner != user.ID {
		log.Warn().Int("owner", existing.Owner).Int("user", user.ID).Msg("[playlist] update: forbidden")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the owner can modify this playlist"}
	}

	updated, err := p.store.UpdatePlaylist(id, req.Name, req.Description)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[playlist] update: persist failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update playlist"}
	}
	updated.Videos = existing.Videos

	return &api.Response{Data: mapPlaylist(updated), Message: "playlist updated successfully"}, nil
}

// deletePlaylist removes a playlist after verifying user ownership. Referenced
// videos are untouched.
func (p *PlaylistController) deletePlaylist(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid playlist id"}
	}

	pl, err := p.store.GetPlaylistByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "playlist not found"}
	}
	if pl.Owner != user.ID {
		log.Warn().Int("owner", pl.Owner).Int("user", user.ID).Msg("[playlist] delete: forbidden")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the owner can delete this playlist"}
	}

	if err := p.store.DeletePlaylist(id); err != nil {
		log.Error().Err(err).Int("id", id).Msg("[playlist] delete: persist failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete playlist"}
	}

	return &api.Response{Message: "playlist deleted successfully"}, nil
}

func mapPlaylist(pl model.Playlist) packets.PlaylistResponse {
	videos := make([]packets.VideoResponse, len(pl.Videos))
	for i, v := range pl.Videos {
		videos[i] = mapVideo(v)
	}
	return packets.PlaylistResponse{
		ID:          pl.ID,
		Name:        pl.Name,
		Description: pl.Description,
		Owner:       pl.Owner,
		CreatedAt:   pl.CreatedAt,
		UpdatedAt:   pl.UpdatedAt,
		Videos:      videos,
	}
}
