package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixelka/subgate/internal/linking"
)

func TestFormatReplyEscapesEmail(t *testing.T) {
	f := NewTelegramFormatter(nil)

	text, withLinks := f.FormatReply(linking.Reply{Kind: linking.ReplyAccessGranted, Email: "<b>@x.y"})
	assert.Contains(t, text, "&lt;b&gt;@x.y")
	assert.NotContains(t, text, "<b><b>")
	assert.False(t, withLinks)
}

func TestFormatReplyLinks(t *testing.T) {
	f := NewTelegramFormatter([]string{"https://t.me/+invite", "https://www.example.com/course"})

	tests := []struct {
		kind      linking.ReplyKind
		wantLinks bool
	}{
		{linking.ReplyOnboarding, false},
		{linking.ReplyGuidance, false},
		{linking.ReplyAccessGranted, true},
		{linking.ReplyAlreadyLinked, true},
		{linking.ReplyStatusLinked, false},
		{linking.ReplyStatusNone, false},
		{linking.ReplyEmailTaken, false},
		{linking.ReplyFailure, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			text, withLinks := f.FormatReply(linking.Reply{Kind: tt.kind, Email: "a@b.com"})
			assert.NotEmpty(t, text)
			assert.Equal(t, tt.wantLinks, withLinks)
		})
	}
}

func TestAlreadyLinkedRestatesEmail(t *testing.T) {
	f := NewTelegramFormatter(nil)
	text, _ := f.FormatReply(linking.Reply{Kind: linking.ReplyAlreadyLinked, Email: "first@example.com"})
	assert.Contains(t, text, "first@example.com")
}

func TestBuildLinksKeyboard(t *testing.T) {
	assert.Nil(t, NewTelegramFormatter(nil).BuildLinksKeyboard())

	kb := NewTelegramFormatter([]string{"https://t.me/+invite", "https://www.example.com/course", "not a url"}).BuildLinksKeyboard()
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, "t.me", kb.InlineKeyboard[0][0].Text)
	assert.Equal(t, "https://t.me/+invite", kb.InlineKeyboard[0][0].URL)
	assert.Equal(t, "example.com", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "Link 3", kb.InlineKeyboard[2][0].Text)
}
