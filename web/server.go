package web

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"weedwatch/config"
	"weedwatch/services"
	"weedwatch/status"
	"weedwatch/utils"
)

// ScanRunner runs one scan to completion. Satisfied by services.Scanner.
type ScanRunner interface {
	Run(ctx context.Context, opts services.ScanOptions)
}

// Server is the presentation layer: one status page and one trigger
// endpoint. The page is a plain reload-to-refresh report; there is no
// push channel.
type Server struct {
	cfg     *config.Config
	logger  *utils.Logger
	state   *status.Store
	scanner ScanRunner
	router  *gin.Engine
	page    *template.Template
}

// NewServer wires the routes and parses the status page template.
func NewServer(cfg *config.Config, logger *utils.Logger, state *status.Store, scanner ScanRunner) *Server {
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		state:   state,
		scanner: scanner,
		router:  router,
		page:    template.Must(template.New("status").Parse(pageTemplate)),
	}

	router.GET("/", s.handleIndex)
	router.POST("/run", s.handleRun)
	router.GET("/healthz", s.handleHealth)

	return s
}

// Run blocks serving HTTP on the configured address.
func (s *Server) Run() error {
	s.logger.Info("[web] Listening on %s", s.cfg.ListenAddr)
	return s.router.Run(s.cfg.ListenAddr)
}

func (s *Server) handleIndex(c *gin.Context) {
	snap := s.state.Snapshot()

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := s.page.Execute(c.Writer, snap); err != nil {
		s.logger.Error("[web] Render failed: %v", err)
	}
}

// handleRun starts a scan on a background goroutine and redirects back
// to the status page. If a scan is already running the request is a
// silent no-op; TryStart does the check and the transition under one
// lock, so two simultaneous triggers cannot both start.
func (s *Server) handleRun(c *gin.Context) {
	if !s.state.TryStart() {
		s.logger.Warn("[web] Scan trigger ignored: a scan is already running")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	opts := services.ScanOptions{
		MaxItems:       s.intParam(c, "limit_items", s.cfg.MaxItems),
		PerSiteResults: s.intParam(c, "per_site_results", s.cfg.PerSiteResults),
	}

	s.logger.Info("[web] Scan triggered — max items: %d, per-site results: %d",
		opts.MaxItems, opts.PerSiteResults)

	go s.scanner.Run(context.Background(), opts)

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// intParam reads an override from the form body or query string,
// falling back to the configured default.
func (s *Server) intParam(c *gin.Context, name string, fallback int) int {
	val := c.PostForm(name)
	if val == "" {
		val = c.Query(name)
	}
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		s.logger.Warn("[web] Ignoring bad %s=%q", name, val)
		return fallback
	}
	return n
}

// All snapshot fields pass through html/template's contextual escaping,
// so scraped titles can never become live markup on this page.
const pageTemplate = `<!DOCTYPE html>
<html>
<head><title>Weedwatch Live Report</title></head>
<body>
<h1>Weedwatch Live Report</h1>
<p>Status: {{if .Running}}RUNNING{{else}}IDLE{{end}}</p>
<p>Progress: {{.Progress}}</p>
{{if not .LastRunAt.IsZero}}<p>Last Run: {{.LastRunAt.Format "2006-01-02 15:04:05"}}</p>{{end}}
{{if .Error}}<p style="color:red;">Error: {{.Error}}</p>{{end}}

<form method="post" action="/run">
  <button type="submit">Run Scan</button>
</form>

{{with .Summary}}
<p>{{.TotalListings}} listings across {{.SpeciesScanned}} species ({{.FlaggedListings}} flagged)</p>
{{end}}

<table border="1">
<tr>
  <th>Scientific</th>
  <th>Common</th>
  <th>Rating</th>
  <th>CCR</th>
  <th>Site</th>
  <th>Title</th>
  <th>Price</th>
  <th>URL</th>
</tr>
{{range .Results}}
<tr>
  <td>{{.ScientificName}}</td>
  <td>{{.CommonName}}</td>
  <td>{{.Rating}}</td>
  <td>{{if .IsCCR}}&#9989;{{end}}</td>
  <td>{{.Site}}</td>
  <td>{{.Title}}</td>
  <td>{{.Price}}</td>
  <td><a href="{{.URL}}" target="_blank" rel="noopener">open</a></td>
</tr>
{{end}}
</table>
</body>
</html>
`
