package handlers

import (
	"net/http"

	"zorgmatch/internal/app"
	"zorgmatch/internal/common"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
)

type UserHandler struct {
	users *app.UserService
}

func NewUserHandler(users *app.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type roleRequest struct {
	Role string `json:"role"`
}

type onlineStatusPreferenceRequest struct {
	ShowOnlineStatus *bool `json:"show_online_status"`
}

func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	account, err := h.users.GetCurrent(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	account, err := h.users.SetRole(r.Context(), userID, req.Role)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *UserHandler) SetOnlineStatusPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req onlineStatusPreferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.ShowOnlineStatus == nil {
		response.Error(w, common.NewError(common.CodeValidation, "show_online_status is required", nil))
		return
	}
	account, err := h.users.SetOnlineStatusPreference(r.Context(), userID, *req.ShowOnlineStatus)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}
