package postgres

import (
	"context"
	"database/sql"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/message"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, sender_id, receiver_id, content, is_read, created_at`

func (r *MessageRepository) Create(ctx context.Context, m message.Message) (*message.Message, error) {
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO messages (id, sender_id, receiver_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.SenderID, m.ReceiverID, m.Content, m.IsRead, m.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create message", err)
	}
	return &m, nil
}

func (r *MessageRepository) ListConversation(ctx context.Context, userID, otherUserID common.UUID) ([]message.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`, userID, otherUserID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list conversation", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *MessageRepository) ListAll(ctx context.Context, userID common.UUID) ([]message.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list messages", err)
	}
	defer rows.Close()
	return collectMessages(rows)
}

func (r *MessageRepository) CountUnread(ctx context.Context, receiverID common.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = FALSE`, receiverID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count unread messages", err)
	}
	return count, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, id common.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id = $1`, id); err != nil {
		return common.NewError(common.CodeInternal, "failed to mark message read", err)
	}
	return nil
}

func collectMessages(rows *sql.Rows) ([]message.Message, error) {
	var items []message.Message
	for rows.Next() {
		var m message.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan message", err)
		}
		items = append(items, m)
	}
	return items, nil
}
