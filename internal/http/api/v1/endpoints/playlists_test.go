package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmayjain06/videotube/internal/http/api/v1/packets"
)

func TestCreatePlaylist_RejectsOnlyWhenBothFieldsBlank(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	router := newTestRouter(store, newFakeStorage(), owner)

	w, env := doJSON(router, http.MethodPost, "/api/v1/playlists", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	// one field present is enough, the other is stored empty
	w, env = doJSON(router, http.MethodPost, "/api/v1/playlists", map[string]string{"name": "Favorites"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)

	var created packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Favorites", created.Name)
	assert.Empty(t, created.Description)
	assert.Equal(t, owner.ID, created.Owner)
}

func TestGetUserPlaylists(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	other := store.addUser("bob", "Bob B")
	router := newTestRouter(store, newFakeStorage(), owner)

	_, _ = store.CreatePlaylist("Favorites", "my favs", owner.ID)
	_, _ = store.CreatePlaylist("Bob's", "not yours", other.ID)

	w, env := doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/playlists/user/%d", owner.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var lists []packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	require.Len(t, lists, 1)
	assert.Equal(t, "Favorites", lists[0].Name)

	// a user without playlists gets an empty list, not an error
	userless := store.addUser("carol", "Carol C")
	w, env = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/playlists/user/%d", userless.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	assert.Empty(t, lists)

	// malformed user id is a validation failure
	w, _ = doJSON(router, http.MethodGet, "/api/v1/playlists/user/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlaylist_NotFoundFoldsMalformedID(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	router := newTestRouter(store, newFakeStorage(), owner)

	w, _ := doJSON(router, http.MethodGet, "/api/v1/playlists/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(router, http.MethodGet, "/api/v1/playlists/not-an-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddVideoToPlaylist_DuplicateIsConflict(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	router := newTestRouter(store, newFakeStorage(), owner)

	pl, _ := store.CreatePlaylist("Favorites", "my favs", owner.ID)
	video, _ := store.CreateVideo("Cats", "compilation", "mem://v", "mem://t", 12, owner.ID, true)

	path := fmt.Sprintf("/api/v1/playlists/%d/videos/%d", pl.ID, video.ID)

	w, env := doJSON(router, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Len(t, updated.Videos, 1)

	// second add of the same video is rejected, membership stays a set
	w, _ = doJSON(router, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	full, err := store.GetPlaylistByID(pl.ID)
	require.NoError(t, err)
	assert.Len(t, full.Videos, 1)
}

func TestAddVideoToPlaylist_NonOwnerForbidden(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	intruder := store.addUser("mallory", "Mallory M")

	pl, _ := store.CreatePlaylist("Favorites", "my favs", owner.ID)
	video, _ := store.CreateVideo("Cats", "compilation", "mem://v", "mem://t", 12, owner.ID, true)

	router := newTestRouter(store, newFakeStorage(), intruder)
	w, _ := doJSON(router, http.MethodPost, fmt.Sprintf("/api/v1/playlists/%d/videos/%d", pl.ID, video.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	full, err := store.GetPlaylistByID(pl.ID)
	require.NoError(t, err)
	assert.Empty(t, full.Videos)
}

func TestRemoveVideoFromPlaylist_RestoresMembership(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	router := newTestRouter(store, newFakeStorage(), owner)

	pl, _ := store.CreatePlaylist("Favorites", "my favs", owner.ID)
	keep, _ := store.CreateVideo("Keep", "stays", "mem://v1", "mem://t1", 5, owner.ID, true)
	video, _ := store.CreateVideo("Cats", "compilation", "mem://v2", "mem://t2", 12, owner.ID, true)
	require.NoError(t, store.AddVideoToPlaylist(pl.ID, keep.ID))

	path := fmt.Sprintf("/api/v1/playlists/%d/videos/%d", pl.ID, video.ID)

	w, _ := doJSON(router, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(router, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var updated packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Len(t, updated.Videos, 1)
	assert.Equal(t, keep.ID, updated.Videos[0].ID)
}

func TestRemoveVideoFromPlaylist_MissingMembershipIsNotFound(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	router := newTestRouter(store, newFakeStorage(), owner)

	pl, _ := store.CreatePlaylist("Favorites", "my favs", owner.ID)
	video, _ := store.CreateVideo("Cats", "compilation", "mem://v", "mem://t", 12, owner.ID, true)

	// the playlist exists but does not contain the video: indistinguishable
	// from a missing playlist
	w, _ := doJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/playlists/%d/videos/%d", pl.ID, video.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(router, http.MethodDelete, fmt.Sprintf("/api/v1/playlists/999/videos/%d", video.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePlaylist_OverwritesBothFields(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	router := newTestRouter(store, newFakeStorage(), owner)

	pl, _ := store.CreatePlaylist("Favorites", "my favs", owner.ID)

	// sending only name blanks the description: there is no partial update
	w, env := doJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/playlists/%d", pl.ID), map[string]string{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Renamed", updated.Name)
	assert.Empty(t, updated.Description)

	// both blank is the only rejected combination
	w, _ = doJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/playlists/%d", pl.ID), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePlaylist_NonOwnerForbidden(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	intruder := store.addUser("mallory", "Mallory M")

	pl, _ := store.CreatePlaylist("Favorites", "my favs", owner.ID)

	router := newTestRouter(store, newFakeStorage(), intruder)
	w, _ := doJSON(router, http.MethodPatch, fmt.Sprintf("/api/v1/playlists/%d", pl.ID), map[string]string{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	unchanged, err := store.GetPlaylistByID(pl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Favorites", unchanged.Name)
	assert.Equal(t, "my favs", unchanged.Description)
}

func TestPlaylistLifecycle(t *testing.T) {
	store := newFakeStore()
	owner := store.addUser("alice", "Alice A")
	intruder := store.addUser("mallory", "Mallory M")
	ownerRouter := newTestRouter(store, newFakeStorage(), owner)
	intruderRouter := newTestRouter(store, newFakeStorage(), intruder)

	// create
	w, env := doJSON(ownerRouter, http.MethodPost, "/api/v1/playlists", map[string]string{
		"name":        "Favorites",
		"description": "my favs",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// listed for the owner
	w, env = doJSON(ownerRouter, http.MethodGet, fmt.Sprintf("/api/v1/playlists/user/%d", owner.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lists []packets.PlaylistResponse
	require.NoError(t, json.Unmarshal(env.Data, &lists))
	require.Len(t, lists, 1)
	assert.Equal(t, created.ID, lists[0].ID)

	// add, duplicate add, remove
	video, _ := store.CreateVideo("Cats", "compilation", "mem://v", "mem://t", 12, owner.ID, true)
	memberPath := fmt.Sprintf("/api/v1/playlists/%d/videos/%d", created.ID, video.ID)

	w, _ = doJSON(ownerRouter, http.MethodPost, memberPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(ownerRouter, http.MethodPost, memberPath, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	w, _ = doJSON(ownerRouter, http.MethodDelete, memberPath, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// delete attempts
	deletePath := fmt.Sprintf("/api/v1/playlists/%d", created.ID)
	w, _ = doJSON(intruderRouter, http.MethodDelete, deletePath, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(ownerRouter, http.MethodDelete, deletePath, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(ownerRouter, http.MethodGet, deletePath, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
