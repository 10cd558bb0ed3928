package handlers

import (
	"net/http"
	"time"

	"zorgmatch/internal/app"
	"zorgmatch/internal/common"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
)

type MessageHandler struct {
	messages *app.MessageService
	limiter  middleware.Limiter
}

func NewMessageHandler(messages *app.MessageService, limiter middleware.Limiter) *MessageHandler {
	return &MessageHandler{messages: messages, limiter: limiter}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	receiverID, err := common.ParseUUID(req.ReceiverID)
	if err != nil {
		response.Error(w, common.NewError(common.CodeValidation, "invalid receiver_id", err))
		return
	}
	if h.limiter != nil {
		key := "msg:" + userID.String()
		if !h.limiter.Allow(key, 1, 2*time.Second) {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
	}
	created, err := h.messages.Send(r.Context(), userID, receiverID, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	otherUserID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.messages.Conversation(r.Context(), userID, otherUserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.messages.Conversations(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	count, err := h.messages.UnreadCount(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int{"count": count})
}
