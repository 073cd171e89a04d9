package formatter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-telegram/bot/models"
)

// BuildLinksKeyboard creates an inline keyboard with one URL button per resource link
func (f *TelegramFormatter) BuildLinksKeyboard() *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton

	for i, link := range f.resourceLinks {
		rows = append(rows, []models.InlineKeyboardButton{{
			Text: buttonLabel(link, i),
			URL:  link,
		}})
	}

	if len(rows) == 0 {
		return nil
	}

	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// buttonLabel names a button after the link host, e.g. "t.me"
func buttonLabel(link string, i int) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return fmt.Sprintf("Link %d", i+1)
	}
	return strings.TrimPrefix(u.Host, "www.")
}
