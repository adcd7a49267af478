package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/tanmayjain06/videotube/internal/db"
	"github.com/tanmayjain06/videotube/internal/http/api"
	"github.com/tanmayjain06/videotube/internal/http/api/v1/packets"
	"github.com/tanmayjain06/videotube/internal/http/middleware"
	"github.com/tanmayjain06/videotube/internal/model"
	"github.com/tanmayjain06/videotube/internal/redis"
	"github.com/tanmayjain06/videotube/internal/storage"
)

const defaultPageLimit = 10

type VideoController struct {
	store   db.Store
	storage storage.Storage
}

func newVideoController(store db.Store, storage storage.Storage) *VideoController {
	return &VideoController{store: store, storage: storage}
}

// VideoModule mounts all authenticated /videos endpoints
func VideoModule(store db.Store, storage storage.Storage) api.Module {
	ctl := newVideoController(store, storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/videos", ctl.getAllVideos, middleware.ETag(listingETag))
		c.POST("/videos", ctl.publishVideo)
		c.GET("/videos/:id", ctl.getVideo, middleware.ETag(videoETag))
		c.PATCH("/videos/:id", ctl.updateVideo)
		c.DELETE("/videos/:id", ctl.deleteVideo)
		c.PATCH("/videos/toggle/publish/:id", ctl.togglePublish)
	})
}

const videosETagKey = "videos:etag"

func listingETag(*gin.Context) string { return videosETagKey }

// videoETag skips the conditional path for malformed ids.
func videoETag(ctx *gin.Context) string {
	id := ctx.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		return ""
	}
	return "video:" + id + ":etag"
}

// notifyVideoChanged invalidates the listing ETag and the per-video ETag so
// clients get fresh content on the next poll instead of 304 Not Modified.
func (v *VideoController) notifyVideoChanged(videoID int) {
	redis.Del(context.Background(),
		videosETagKey,
		fmt.Sprintf("video:%d:etag", videoID),
	)
}

// broadcastPublishEvent notifies subscribed clients about a publish-state
// change. Best effort: failures are logged only.
func broadcastPublishEvent(videoID int, published bool) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":         "publish_state_changed",
		"video_id":     videoID,
		"is_published": published,
		"timestamp":    time.Now().Unix(),
	})
	if err != nil {
		return
	}
	if err := middleware.PublishVideoEvent(payload); err != nil {
		log.Debug().Err(err).Int("video_id", videoID).Msg("[video] publish event not delivered")
	}
}

// getAllVideos returns a paginated listing filtered by a case-insensitive
// substring match against title or description, optionally restricted to one
// owner, with the owner profile inlined.
func (v *VideoController) getAllVideos(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}

	query := ctx.Query("query")
	sortBy := ctx.DefaultQuery("sortBy", "createdAt")
	sortType := ctx.DefaultQuery("sortType", "desc")

	var owner *int
	if raw := ctx.Query("userId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid userId"}
		}
		owner = &id
	}

	result, err := v.store.SearchVideos(query, owner, sortBy, sortType, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("[video] list: search failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch videos"}
	}

	out := packets.VideoListResponse{
		Videos:     make([]packets.VideoListItem, len(result.Videos)),
		TotalCount: result.TotalCount,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages(),
	}
	for i, row := range result.Videos {
		out.Videos[i] = packets.VideoListItem{
			VideoResponse: mapVideo(row.Video),
			OwnerDetails: packets.OwnerResponse{
				ID:       row.Owner,
				Username: row.OwnerUsername,
				FullName: row.OwnerFullName,
				Avatar:   row.OwnerAvatar,
			},
		}
	}

	// an empty page is a success, not an error
	message := "videos fetched successfully"
	if len(result.Videos) == 0 {
		message = "no videos found"
	}

	return &api.Response{Data: out, Message: message}, nil
}

// publishVideo stores both media assets, probes the video duration and creates
// the record as published. The record is created only after both uploads
// succeed.
func (v *VideoController) publishVideo(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	title := strings.TrimSpace(ctx.PostForm("title"))
	description := strings.TrimSpace(ctx.PostForm("description"))
	if title == "" || description == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "title and description are required"}
	}

	videoFile, err := ctx.FormFile("videoFile")
	if err != nil {
		log.Warn().Err(err).Msg("[video] publish: missing video file")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "video file is required"}
	}
	thumbnailFile, err := ctx.FormFile("thumbnail")
	if err != nil {
		log.Warn().Err(err).Msg("[video] publish: missing thumbnail")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "thumbnail is required"}
	}

	videoURL, err := v.storage.SaveFile(videoFile, videoFile.Filename)
	if err != nil {
		log.Error().Err(err).Msg("[video] publish: video upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not publish video"}
	}

	duration, err := storage.ProbeDuration(videoFile)
	if err != nil {
		// tolerated: the asset is stored, only the derived duration is missing
		log.Warn().Err(err).Str("file", videoFile.Filename).Msg("[video] publish: could not probe duration")
		duration = 0
	}

	thumbnailURL, err := v.storage.SaveFile(thumbnailFile, thumbnailFile.Filename)
	if err != nil {
		log.Error().Err(err).Msg("[video] publish: thumbnail upload failed")
		if delErr := v.storage.DeleteFile(videoURL); delErr != nil {
			log.Warn().Err(delErr).Str("url", videoURL).Msg("[video] publish: orphaned video asset")
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not publish video"}
	}

	video, err := v.store.CreateVideo(title, description, videoURL, thumbnailURL, duration, user.ID, true)
	if err != nil {
		log.Error().Err(err).Msg("[video] publish: db create failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not publish video"}
	}

	v.notifyVideoChanged(video.ID)
	go broadcastPublishEvent(video.ID, true)

	return &api.Response{
		Code:    http.StatusCreated,
		Data:    mapVideo(video),
		Message: "video published successfully",
	}, nil
}

// getVideo fetches a video by ID. A malformed id and an absent video are both
// reported as not found.
func (v *VideoController) getVideo(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "video not found"}
	}

	video, err := v.store.GetVideoByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "video not found"}
	}

	return &api.Response{Data: mapVideo(video), Message: "video fetched successfully"}, nil
}

// updateVideo overwrites title/description and replaces the thumbnail. The
// record is persisted with the new asset before the old asset is deleted, so a
// failed persist never leaves the record pointing at a removed file.
func (v *VideoController) updateVideo(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid video id"}
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	description := strings.TrimSpace(ctx.PostForm("description"))
	if title == "" || description == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "title and description are required"}
	}

	existing, err := v.store.GetVideoByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "video not found"}
	}
	if existing.Owner != user.ID {
		log.Warn().Int("owner", existing.Owner).Int("user", user.ID).Msg("[video] update: forbidden")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the owner can modify this video"}
	}

	thumbnailFile, err := ctx.FormFile("thumbnail")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "thumbnail is required"}
	}

	newThumbnailURL, err := v.storage.SaveFile(thumbnailFile, thumbnailFile.Filename)
	if err != nil {
		log.Error().Err(err).Msg("[video] update: thumbnail upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update video"}
	}

	updated, err := v.store.UpdateVideo(id, title, description, newThumbnailURL)
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("[video] update: persist failed")
		// the record still references the old thumbnail; drop the new asset
		if delErr := v.storage.DeleteFile(newThumbnailURL); delErr != nil {
			log.Warn().Err(delErr).Str("url", newThumbnailURL).Msg("[video] update: orphaned thumbnail asset")
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update video"}
	}

	// old asset is removed only after the record is persisted
	if err := v.storage.DeleteFile(existing.Thumbnail); err != nil {
		log.Warn().Err(err).Str("url", existing.Thumbnail).Msg("[video] update: old thumbnail not deleted")
	}

	v.notifyVideoChanged(id)

	return &api.Response{Data: mapVideo(updated), Message: "video updated successfully"}, nil
}

// deleteVideo removes the record together with its two media assets. A single
// asset-deletion failure is tolerated; the operation aborts only when both
// deletions fail.
func (v *VideoController) deleteVideo(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid video id"}
	}

	existing, err := v.store.GetVideoByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "video not found"}
	}
	if existing.Owner != user.ID {
		log.Warn().Int("owner", existing.Owner).Int("user", user.ID).Msg("[video] delete: forbidden")
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the owner can delete this video"}
	}

	videoErr := v.storage.DeleteFile(existing.VideoFile)
	if videoErr != nil {
		log.Warn().Err(videoErr).Str("url", existing.VideoFile).Msg("[video] delete: video asset not deleted")
	}
	thumbErr := v.storage.DeleteFile(existing.Thumbnail)
	if thumbErr != nil {
		log.Warn().Err(thumbErr).Str("url", existing.Thumbnail).Msg("[video] delete: thumbnail asset not deleted")
	}
	if videoErr != nil && thumbErr != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete video assets"}
	}

	if err := v.store.DeleteVideo(id); err != nil {
		log.Error().Err(err).Int("id", id).Msg("[video] delete: persist failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete video"}
	}

	v.notifyVideoChanged(id)

	return &api.Response{Message: "video deleted successfully"}, nil
}

// togglePublish flips is_published on the record matched by (id, owner) in one
// filter: a non-owner caller observes not-found, never forbidden.
func (v *VideoController) togglePublish(ctx *gin.Context, user *model.User) (*api.Response, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "video not found"}
	}

	published, err := v.store.TogglePublishStatus(id, user.ID)
	if err != nil {
		if isNoRows(err) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "video not found"}
		}
		log.Error().Err(err).Int("id", id).Msg("[video] toggle: persist failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not toggle publish status"}
	}

	v.notifyVideoChanged(id)
	go broadcastPublishEvent(id, published)

	return &api.Response{
		Data:    packets.TogglePublishResponse{IsPublished: published},
		Message: "publish status toggled",
	}, nil
}

func mapVideo(v model.Video) packets.VideoResponse {
	return packets.VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		Owner:       v.Owner,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
