package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/message"
	"zorgmatch/internal/domain/user"
)

// ResponseRecorder is the slice of the application service the messaging flow
// needs: stamping first-response times when a vacancy owner writes an
// applicant.
type ResponseRecorder interface {
	MarkResponded(ctx context.Context, ownerID, applicantID common.UUID, at time.Time) error
}

// Notifier pushes a delivery nudge to a connected user. Implementations must
// not block; offline users are silently skipped.
type Notifier interface {
	Notify(userID common.UUID, payload any)
}

// MessageService implements direct messaging between users plus the
// first-response bookkeeping that feeds the organisation statistics.
type MessageService struct {
	messages  message.Repository
	users     user.Repository
	responses ResponseRecorder
	notifier  Notifier
	logger    Logger
	now       func() time.Time
}

func NewMessageService(messages message.Repository, users user.Repository, responses ResponseRecorder, notifier Notifier, logger Logger) *MessageService {
	return &MessageService{
		messages:  messages,
		users:     users,
		responses: responses,
		notifier:  notifier,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MessageService) Send(ctx context.Context, senderID, receiverID common.UUID, content string) (*message.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.NewValidationError("invalid message", map[string]string{"content": "content is required"})
	}
	if senderID == receiverID {
		return nil, common.NewValidationError("invalid message", map[string]string{"receiver_id": "cannot message yourself"})
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, err
	}
	created, err := s.messages.Create(ctx, message.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		return nil, err
	}
	if s.responses != nil {
		// The sender may own vacancies the receiver applied to; the recorder
		// stamps respondedAt only where that holds and only once.
		if err := s.responses.MarkResponded(ctx, senderID, receiverID, created.CreatedAt); err != nil {
			s.logError(fmt.Sprintf("failed to record response message_id=%s", created.ID))
		}
	}
	if s.notifier != nil {
		s.notifier.Notify(receiverID, created)
	}
	return created, nil
}

// Conversation returns the full thread with the other user and marks the
// incoming half read.
func (s *MessageService) Conversation(ctx context.Context, userID, otherUserID common.UUID) ([]message.Message, error) {
	items, err := s.messages.ListConversation(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	for i, m := range items {
		if m.ReceiverID == userID && !m.IsRead {
			if err := s.messages.MarkRead(ctx, m.ID); err != nil {
				s.logError(fmt.Sprintf("failed to mark message read message_id=%s", m.ID))
				continue
			}
			items[i].IsRead = true
		}
	}
	return items, nil
}

// Conversations summarizes the newest exchange per counterpart, newest first.
func (s *MessageService) Conversations(ctx context.Context, userID common.UUID) ([]message.Conversation, error) {
	items, err := s.messages.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	order := make([]common.UUID, 0)
	summaries := make(map[common.UUID]*message.Conversation)
	for _, m := range items {
		otherID := m.SenderID
		if otherID == userID {
			otherID = m.ReceiverID
		}
		summary, seen := summaries[otherID]
		if !seen {
			summary = &message.Conversation{
				UserID:          otherID,
				LastMessage:     m.Content,
				LastMessageDate: m.CreatedAt,
			}
			summaries[otherID] = summary
			order = append(order, otherID)
		}
		if m.ReceiverID == userID && !m.IsRead {
			summary.UnreadCount++
		}
	}
	result := make([]message.Conversation, 0, len(order))
	for _, otherID := range order {
		summary := summaries[otherID]
		if other, err := s.users.GetByID(ctx, otherID); err == nil {
			summary.UserName = displayName(other)
			summary.Email = other.Email
		}
		result = append(result, *summary)
	}
	return result, nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID common.UUID) (int, error) {
	return s.messages.CountUnread(ctx, userID)
}

func displayName(account *user.User) string {
	name := strings.TrimSpace(account.FirstName + " " + account.LastName)
	if name == "" {
		return account.Email
	}
	return name
}

func (s *MessageService) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}
