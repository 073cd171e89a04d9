package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/mixelka/subgate/pkg/models"
)

// ErrNotFound is returned when a record is not found
var ErrNotFound = errors.New("record not found")

// ErrEmailTaken is returned when the email is already linked to another Telegram user
var ErrEmailTaken = errors.New("email already linked to another account")

// SortOrder is the linked_at ordering used by ListLinks
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a user supplied value to a SortOrder, defaulting to SortDesc
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// UpsertLink links telegramUserID to email, replacing the email of an
// existing link. linked_at keeps its original value on replacement.
func (db *DB) UpsertLink(ctx context.Context, telegramUserID int64, email string) error {
	query := db.Rebind(`
		INSERT INTO identity_links (telegram_user_id, email, linked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (telegram_user_id) DO UPDATE SET email = excluded.email
	`)
	_, err := db.ExecContext(ctx, query, telegramUserID, email, time.Now().UTC())
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to upsert link: %w", err)
	}
	return nil
}

// GetLinkByAccount returns the link of a Telegram user
func (db *DB) GetLinkByAccount(ctx context.Context, telegramUserID int64) (*models.IdentityLink, error) {
	var link models.IdentityLink
	query := db.Rebind(`SELECT telegram_user_id, email, linked_at FROM identity_links WHERE telegram_user_id = ?`)
	err := db.GetContext(ctx, &link, query, telegramUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}

// GetLinkByEmail returns the link owning email, compared case-insensitively
func (db *DB) GetLinkByEmail(ctx context.Context, email string) (*models.IdentityLink, error) {
	var link models.IdentityLink
	query := db.Rebind(`SELECT telegram_user_id, email, linked_at FROM identity_links WHERE lower(email) = lower(?)`)
	err := db.GetContext(ctx, &link, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link by email: %w", err)
	}
	return &link, nil
}

// ListLinks returns every link ordered by linked_at
func (db *DB) ListLinks(ctx context.Context, order SortOrder) ([]*models.IdentityLink, error) {
	direction := "DESC"
	if order == SortAsc {
		direction = "ASC"
	}

	var links []*models.IdentityLink
	query := `SELECT telegram_user_id, email, linked_at FROM identity_links ORDER BY linked_at ` + direction + `, telegram_user_id ` + direction
	err := db.SelectContext(ctx, &links, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	return links, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
