// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

type conversationRepository struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

// NewConversationRepository constructs a [ConversationRepository] on top of db.
func NewConversationRepository(db *DB, log *logger.Logger) ConversationRepository {
	log.Debug().Msg("creating conversation repository")
	return &conversationRepository{db: db, logger: log, now: time.Now}
}

func (r *conversationRepository) CreateConversation(ctx context.Context, c models.ConversationRecord) error {
	query, args, err := buildInsertConversationQuery(c)
	if err != nil {
		return err
	}
	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*conversationRepository.CreateConversation").Msg("failed to insert conversation")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func (r *conversationRepository) GetConversation(ctx context.Context, id string) (models.ConversationRecord, error) {
	query, args, err := buildGetConversationQuery(id)
	if err != nil {
		return models.ConversationRecord{}, err
	}

	c, err := scanConversation(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConversationRecord{}, ErrConversationNotFound
		}
		return models.ConversationRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return c, nil
}

func (r *conversationRepository) ListConversations(ctx context.Context, userID string) ([]models.ConversationRecord, error) {
	query, args, err := buildListConversationsQuery(userID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*conversationRepository.ListConversations").Str("user_id", userID).Msg("failed to query conversations")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	out := make([]models.ConversationRecord, 0)
	for rows.Next() {
		c, scanErr := scanConversation(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return out, nil
}

func (r *conversationRepository) AppendMessages(ctx context.Context, conversationID string, messages ...models.MessageRecord) ([]models.MessageRecord, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*conversationRepository.AppendMessages").Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	seqQuery, seqArgs, err := buildLastSequenceQuery(conversationID)
	if err != nil {
		return nil, err
	}
	var last int
	if err = tx.QueryRowContext(ctx, seqQuery, seqArgs...).Scan(&last); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	stored := make([]models.MessageRecord, 0, len(messages))
	for _, m := range messages {
		last++
		m.ConversationID = conversationID
		m.SequenceNumber = last

		query, args, buildErr := buildInsertMessageQuery(m)
		if buildErr != nil {
			return nil, buildErr
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).Str("func", "*conversationRepository.AppendMessages").Str("conversation_id", conversationID).Msg("failed to insert message")
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
		stored = append(stored, m)
	}

	touchQuery, touchArgs, err := buildTouchConversationQuery(conversationID, r.now())
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, touchQuery, touchArgs...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*conversationRepository.AppendMessages").Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return stored, nil
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string) ([]models.MessageRecord, error) {
	query, args, err := buildListMessagesQuery(conversationID)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*conversationRepository.ListMessages").Str("conversation_id", conversationID).Msg("failed to query messages")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	out := make([]models.MessageRecord, 0)
	for rows.Next() {
		m, scanErr := scanMessage(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		out = append(out, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return out, nil
}
