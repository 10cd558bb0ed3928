package message

import (
	"context"

	"zorgmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, m Message) (*Message, error)
	ListConversation(ctx context.Context, userID, otherUserID common.UUID) ([]Message, error)
	// ListAll returns every message the user sent or received, newest first.
	ListAll(ctx context.Context, userID common.UUID) ([]Message, error)
	CountUnread(ctx context.Context, receiverID common.UUID) (int, error)
	MarkRead(ctx context.Context, id common.UUID) error
}
