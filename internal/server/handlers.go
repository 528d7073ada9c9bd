// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/AccelByte/extend-learning-progress/pkg/bookmark"
	"github.com/AccelByte/extend-learning-progress/pkg/common"
	"github.com/AccelByte/extend-learning-progress/pkg/progress"
	"github.com/AccelByte/extend-learning-progress/pkg/store"
	"github.com/gorilla/mux"
)

// MaxWeeklyDays bounds the weekly series length.
const MaxWeeklyDays = 366

// API serves the progress and bookmark endpoints.
type API struct {
	progress  *progress.Directory
	bookmarks *bookmark.Service
	health    []*store.HealthChecker
}

// NewAPI creates the API handlers.
func NewAPI(directory *progress.Directory, bookmarks *bookmark.Service, health ...*store.HealthChecker) *API {
	return &API{
		progress:  directory,
		bookmarks: bookmarks,
		health:    health,
	}
}

// RegisterRoutes mounts every endpoint on r.
func (a *API) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", a.Health).Methods(http.MethodGet)

	p := r.PathPrefix("/v1/profiles/{profileID:[A-Za-z0-9_.-]+}").Subrouter()
	p.HandleFunc("/progress", a.GetProgress).Methods(http.MethodGet)
	p.HandleFunc("/progress", a.ResetProgress).Methods(http.MethodDelete)
	p.HandleFunc("/activities", a.RecordActivity).Methods(http.MethodPost)
	p.HandleFunc("/roadmap-units/complete", a.CompleteRoadmapUnit).Methods(http.MethodPost)
	p.HandleFunc("/last-active-roadmap", a.UpdateLastActiveRoadmap).Methods(http.MethodPut)
	p.HandleFunc("/weekly", a.GetWeekly).Methods(http.MethodGet)
	p.HandleFunc("/bookmarks", a.ListBookmarks).Methods(http.MethodGet)
	p.HandleFunc("/bookmarks", a.AddBookmark).Methods(http.MethodPost)
	p.HandleFunc("/bookmarks/toggle", a.ToggleBookmark).Methods(http.MethodPost)
	p.HandleFunc("/bookmarks/{bookmarkID}", a.RemoveBookmark).Methods(http.MethodDelete)
}

type errorResponse struct {
	Error string `json:"error"`
}

type recordActivityRequest struct {
	Source string `json:"source"`
}

type toggleBookmarkResponse struct {
	ID         string `json:"id"`
	Bookmarked bool   `json:"bookmarked"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes JSON into v. An empty body leaves v untouched when
// allowEmpty is set.
func decodeBody(r *http.Request, v interface{}, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}

func (a *API) scope(r *http.Request, name string) (*common.Scope, string) {
	scope := common.NewScope(r.Context(), name)
	profileID := mux.Vars(r)["profileID"]
	if profileID != "" {
		scope.SetAttributes("profile.id", profileID)
		scope.Log = scope.Log.WithField("profileID", profileID)
	}
	return scope, profileID
}

// GET /v1/profiles/{profileID}/progress
func (a *API) GetProgress(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "GetProgress")
	defer scope.Finish()

	tracker := a.progress.Get(scope.Ctx, profileID)
	writeJSON(w, http.StatusOK, tracker.Snapshot())
}

// DELETE /v1/profiles/{profileID}/progress
func (a *API) ResetProgress(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "ResetProgress")
	defer scope.Finish()

	if err := a.progress.Get(scope.Ctx, profileID).Reset(scope.Ctx); err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to reset progress: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to reset progress")
		return
	}

	if err := a.bookmarks.Clear(scope.Ctx, profileID); err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to clear bookmarks: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear bookmarks")
		return
	}

	scope.Log.Info("progress reset")
	w.WriteHeader(http.StatusNoContent)
}

// POST /v1/profiles/{profileID}/activities
func (a *API) RecordActivity(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "RecordActivity")
	defer scope.Finish()

	var req recordActivityRequest
	if err := decodeBody(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := a.progress.Get(scope.Ctx, profileID).RecordActivity(scope.Ctx, req.Source)
	scope.SetAttributes("activity.today_count", result.TodayCount)
	scope.SetAttributes("activity.goal_just_met", result.GoalJustMet)

	writeJSON(w, http.StatusOK, result)
}

// POST /v1/profiles/{profileID}/roadmap-units/complete
func (a *API) CompleteRoadmapUnit(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "CompleteRoadmapUnit")
	defer scope.Finish()

	result := a.progress.Get(scope.Ctx, profileID).RecordRoadmapUnitComplete(scope.Ctx)
	writeJSON(w, http.StatusOK, result)
}

// PUT /v1/profiles/{profileID}/last-active-roadmap
func (a *API) UpdateLastActiveRoadmap(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "UpdateLastActiveRoadmap")
	defer scope.Finish()

	var pos progress.RoadmapPosition
	if err := decodeBody(r, &pos, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tracker := a.progress.Get(scope.Ctx, profileID)
	tracker.UpdateLastActiveRoadmap(scope.Ctx, pos.CategoryID, pos.RoadmapIndex, pos.UnitIndex, pos.UnitTitle)

	writeJSON(w, http.StatusOK, tracker.LastActiveRoadmap())
}

// GET /v1/profiles/{profileID}/weekly?days=N
func (a *API) GetWeekly(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "GetWeekly")
	defer scope.Finish()

	days := progress.DefaultWeeklyDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n > MaxWeeklyDays {
			writeError(w, http.StatusBadRequest, "days must be an integer up to 366")
			return
		}
		days = n
	}

	writeJSON(w, http.StatusOK, a.progress.Get(scope.Ctx, profileID).WeeklySeries(days))
}

// GET /v1/profiles/{profileID}/bookmarks
func (a *API) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "ListBookmarks")
	defer scope.Finish()

	list, err := a.bookmarks.List(scope.Ctx, profileID)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to list bookmarks: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list bookmarks")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func decodeSnippet(r *http.Request) (bookmark.Snippet, error) {
	var snippet bookmark.Snippet
	if err := decodeBody(r, &snippet, false); err != nil {
		return snippet, err
	}
	if snippet.Topic == "" || snippet.Title == "" {
		return snippet, errors.New("topic and title are required")
	}
	return snippet, nil
}

// POST /v1/profiles/{profileID}/bookmarks
func (a *API) AddBookmark(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "AddBookmark")
	defer scope.Finish()

	snippet, err := decodeSnippet(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, added, err := a.bookmarks.Add(scope.Ctx, profileID, snippet)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to add bookmark: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to add bookmark")
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, b)
}

// POST /v1/profiles/{profileID}/bookmarks/toggle
func (a *API) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "ToggleBookmark")
	defer scope.Finish()

	snippet, err := decodeSnippet(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	on, err := a.bookmarks.Toggle(scope.Ctx, profileID, snippet)
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to toggle bookmark: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle bookmark")
		return
	}

	writeJSON(w, http.StatusOK, toggleBookmarkResponse{
		ID:         bookmark.ID(snippet.Topic, snippet.Title),
		Bookmarked: on,
	})
}

// DELETE /v1/profiles/{profileID}/bookmarks/{bookmarkID}
func (a *API) RemoveBookmark(w http.ResponseWriter, r *http.Request) {
	scope, profileID := a.scope(r, "RemoveBookmark")
	defer scope.Finish()

	removed, err := a.bookmarks.Remove(scope.Ctx, profileID, mux.Vars(r)["bookmarkID"])
	if err != nil {
		scope.TraceError(err)
		scope.Log.Errorf("failed to remove bookmark: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to remove bookmark")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "bookmark not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /healthz
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{}
	healthy := true
	for _, h := range a.health {
		if err := h.Check(r.Context()); err != nil {
			status[h.Name()] = err.Error()
			healthy = false
			continue
		}
		status[h.Name()] = "ok"
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
