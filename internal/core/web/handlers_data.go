package web

import (
	"net/http"
	"time"

	"github.com/seckatie/urlrota/internal/core"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (ws *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	ws.writeJSON(w, http.StatusOK, healthzResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(ws.started).Seconds(),
	})
}

type domainsResponse struct {
	Domains []string `json:"domains"`
	Default string   `json:"default"`
}

func (ws *Server) handleDomains(w http.ResponseWriter, _ *http.Request) {
	names, def, err := ws.db.ListDomains()
	if err != nil {
		ws.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	ws.writeJSON(w, http.StatusOK, domainsResponse{Domains: names, Default: def})
}

type browserView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	VPNCode  string `json:"vpn_code"`
	Command  string `json:"command"`
	Launcher string `json:"launcher"`
}

func (ws *Server) handleBrowsers(w http.ResponseWriter, _ *http.Request) {
	browsers, err := ws.db.ListBrowsers()
	if err != nil {
		ws.writeError(w, err)
		return
	}
	views := make([]browserView, 0, len(browsers))
	for _, b := range browsers {
		views = append(views, browserView(b))
	}
	ws.writeJSON(w, http.StatusOK, views)
}

type urlView struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Domain    string `json:"domain"`
	Weight    int    `json:"weight"`
	Page      int    `json:"page"`
	CreatedAt string `json:"created_at"`
}

func (ws *Server) handleURLs(w http.ResponseWriter, r *http.Request) {
	urls, err := ws.db.ListCandidates(r.URL.Query().Get("domain"))
	if err != nil {
		ws.writeError(w, err)
		return
	}
	views := make([]urlView, 0, len(urls))
	for _, u := range urls {
		views = append(views, urlView(u))
	}
	ws.writeJSON(w, http.StatusOK, views)
}

type openCountView struct {
	URL   string `json:"url"`
	Page  int    `json:"page"`
	Opens int    `json:"opens"`
}

func (ws *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	since, err := core.ParseSince(q.Get("since"))
	if err != nil {
		ws.writeError(w, err)
		return
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		ws.writeError(w, err)
		return
	}
	minOpens, err := intParam(r, "min_opens", core.DefaultHistoryMinOpens)
	if err != nil {
		ws.writeError(w, err)
		return
	}

	rows, err := ws.db.OpenHistorySummary(q.Get("domain"), since, limit, minOpens)
	if err != nil {
		ws.writeError(w, err)
		return
	}
	views := make([]openCountView, 0, len(rows))
	for _, row := range rows {
		views = append(views, openCountView(row))
	}
	ws.writeJSON(w, http.StatusOK, views)
}

func (ws *Server) handleVPNStatus(w http.ResponseWriter, r *http.Request) {
	st, err := ws.vpn.Status(r.Context())
	if err != nil {
		ws.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	ws.writeJSON(w, http.StatusOK, st)
}
