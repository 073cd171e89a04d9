package httpapi

import (
	"bytes"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/mixelka/subgate/internal/database"
	appmodels "github.com/mixelka/subgate/pkg/models"
)

const adminTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Linked subscribers</title>
</head>
<body>
<h1>Linked subscribers ({{len .Links}})</h1>
<p>Sorted by link time, {{if eq .Sort "asc"}}oldest first · <a href="?token={{.Token}}&amp;sort=desc">newest first</a>{{else}}newest first · <a href="?token={{.Token}}&amp;sort=asc">oldest first</a>{{end}}</p>
<table id="links">
<thead><tr><th>Telegram user</th><th>Email</th><th>Linked at</th></tr></thead>
<tbody>
{{range .Links}}<tr><td class="telegram-id">{{.TelegramUserID}}</td><td class="email">{{.Email}}</td><td class="linked-at">{{.LinkedAt.UTC.Format "2006-01-02 15:04:05"}} UTC</td></tr>
{{end}}</tbody>
</table>
</body>
</html>
`

type adminPage struct {
	Links []*appmodels.IdentityLink
	Sort  database.SortOrder
	Token string
}

// handleAdminLinks renders every link, gated by the admin token
func (s *Server) handleAdminLinks(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if !s.adminAllowed(token) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	order := database.ParseSortOrder(r.URL.Query().Get("sort"))
	links, err := s.links.ListLinks(r.Context(), order)
	if err != nil {
		s.logger.Error("failed to list links", "error", err)
		http.Error(w, "failed to list links", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.admin.Execute(&buf, adminPage{Links: links, Sort: order, Token: token}); err != nil {
		s.logger.Error("failed to render admin page", "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (s *Server) adminAllowed(token string) bool {
	expected := s.config.AdminToken
	if expected == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

type statusResponse struct {
	Time        time.Time `json:"time"`
	Environment string    `json:"environment"`
	WebhookURL  string    `json:"webhook_url"`
}

// handleStatus reports the server clock, environment and webhook URL
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Time:        s.now().UTC(),
		Environment: s.config.AppEnv,
		WebhookURL:  s.config.WebhookURL(),
	})
}
