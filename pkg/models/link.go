package models

import "time"

// IdentityLink associates a Telegram user with a subscriber email
type IdentityLink struct {
	TelegramUserID int64     `db:"telegram_user_id"` // Telegram User ID (private chat sender)
	Email          string    `db:"email"`            // Subscriber email as entered by the user
	LinkedAt       time.Time `db:"linked_at"`        // Set once on first link
}
