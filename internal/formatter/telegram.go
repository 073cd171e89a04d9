package formatter

import (
	"fmt"
	"strings"

	"github.com/mixelka/subgate/internal/linking"
)

// TelegramFormatter renders linking replies as Telegram HTML
type TelegramFormatter struct {
	resourceLinks []string
}

// NewTelegramFormatter creates a new Telegram formatter
func NewTelegramFormatter(resourceLinks []string) *TelegramFormatter {
	return &TelegramFormatter{
		resourceLinks: resourceLinks,
	}
}

// FormatReply returns the message text for a reply and whether the resource
// link keyboard should be attached
func (f *TelegramFormatter) FormatReply(reply linking.Reply) (string, bool) {
	switch reply.Kind {
	case linking.ReplyOnboarding:
		return `<b>Welcome!</b>

To get access to the subscriber group, send me the email address you used for your subscription.

<b>Commands:</b>
/status - show which email is linked to your account
/help - show this message`, false

	case linking.ReplyGuidance:
		return "That doesn't look like an email address.\nPlease send the email you used to subscribe, e.g. <code>name@example.com</code>", false

	case linking.ReplyAccessGranted:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Your account is now linked to <b>%s</b>.\n\n", f.escapeHTML(reply.Email)))
		sb.WriteString("Access granted! ")
		sb.WriteString(f.linksText())
		return sb.String(), f.hasLinks()

	case linking.ReplyAlreadyLinked:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Your account is already linked to <b>%s</b>.\n\n", f.escapeHTML(reply.Email)))
		sb.WriteString(f.linksText())
		return sb.String(), f.hasLinks()

	case linking.ReplyStatusLinked:
		return fmt.Sprintf("🟢 Linked to <b>%s</b>", f.escapeHTML(reply.Email)), false

	case linking.ReplyStatusNone:
		return "🔴 No email linked yet. Send me your subscription email to link it.", false

	case linking.ReplyEmailTaken:
		return fmt.Sprintf("The email <b>%s</b> is already linked to another Telegram account.\nIf this is your email, please contact support.", f.escapeHTML(reply.Email)), false

	default:
		return "Something went wrong, please try again later.", false
	}
}

func (f *TelegramFormatter) hasLinks() bool {
	return len(f.resourceLinks) > 0
}

func (f *TelegramFormatter) linksText() string {
	if !f.hasLinks() {
		return "You can now join the subscriber group."
	}
	return "Use the buttons below to join:"
}

// escapeHTML escapes HTML special characters for Telegram
func (f *TelegramFormatter) escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
