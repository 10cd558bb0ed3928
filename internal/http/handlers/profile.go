package handlers

import (
	"net/http"

	"zorgmatch/internal/app"
	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/profile"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	Title        string   `json:"title"`
	Bio          string   `json:"bio"`
	Expertise    []string `json:"expertise"`
	Location     string   `json:"location"`
	Availability string   `json:"availability"`
	HourlyRate   string   `json:"hourly_rate"`
	Experience   string   `json:"experience"`
}

func (req profileRequest) toProfile(userID common.UUID) profile.ZzpProfile {
	return profile.ZzpProfile{
		UserID:       userID,
		Title:        req.Title,
		Bio:          req.Bio,
		Expertise:    req.Expertise,
		Location:     req.Location,
		Availability: req.Availability,
		HourlyRate:   req.HourlyRate,
		Experience:   req.Experience,
	}
}

func (h *ProfileHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	item, err := h.profiles.GetOwn(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.profiles.Create(r.Context(), req.toProfile(userID))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.profiles.Update(r.Context(), userID, req.toProfile(userID))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.profiles.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profileID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.profiles.Get(r.Context(), profileID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}
