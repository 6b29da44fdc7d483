package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/zuhairmahd/AutopilotLogViewer/internal/filter"
	"github.com/zuhairmahd/AutopilotLogViewer/internal/parser"
)

// Server exposes the loaded log file over HTTP: the visible record subset,
// the filter dimensions, and parse statistics, with a WebSocket channel
// announcing reloads. The filter model itself assumes sequential use, so
// every handler takes the server mutex before touching it.
type Server struct {
	engine *gin.Engine
	port   string

	mu         sync.Mutex
	path       string
	model      *filter.Model
	formatName string
	skipped    int

	subsMu sync.Mutex
	subs   map[string]chan string
}

// New creates a dashboard server for the given log file. The file is parsed
// on the first call to Reload.
func New(path, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		port:   port,
		path:   path,
		model:  filter.NewModel(),
		subs:   make(map[string]chan string),
	}

	s.setupRoutes()
	return s
}

// Reload re-detects the file format, reparses, loads the filter model
// (preserving selections), and notifies WebSocket subscribers.
func (s *Server) Reload() error {
	p, err := parser.Detect(s.path)
	if err != nil {
		return err
	}
	records, skipped, err := parser.ParseFile(s.path, p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.model.Load(records)
	s.skipped = skipped
	s.formatName = p.Name()
	s.mu.Unlock()

	s.notifyAll("reload")
	log.Printf("loaded %s: %d records (%d lines skipped)", s.path, len(records), skipped)
	return nil
}

// Run starts serving on the configured port. Blocks.
func (s *Server) Run() error {
	return s.engine.Run(":" + s.port)
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "file": s.path})
	})

	api := s.engine.Group("/api")
	api.GET("/records", s.handleRecords)
	api.GET("/filters", s.handleFilters)
	api.GET("/stats", s.handleStats)
	api.PUT("/filters/search", s.handleSetSearch)
	api.PUT("/filters/level", s.handleSetLevel)
	api.PUT("/filters/module", s.handleSetModule)

	s.engine.GET("/ws", s.handleWebSocket)
}

func (s *Server) handleRecords(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"records": s.model.Visible(),
		"total":   len(s.model.Records()),
	})
}

func (s *Server) handleFilters(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"levels":  s.model.Levels(),
		"modules": s.model.Modules(),
		"search":  s.model.Search(),
	})
}

func (s *Server) handleStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"file":         s.path,
		"format":       s.formatName,
		"totalRecords": len(s.model.Records()),
		"visible":      len(s.model.Visible()),
		"skippedLines": s.skipped,
	})
}

func (s *Server) handleSetSearch(c *gin.Context) {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.model.SetSearch(body.Text)
	visible := len(s.model.Visible())
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"visible": visible})
}

// dimensionUpdate toggles one option, or every option when All is set.
type dimensionUpdate struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	All      *bool  `json:"all,omitempty"`
}

func (s *Server) handleSetLevel(c *gin.Context) {
	s.updateDimension(c, s.model.SetLevelSelected, s.model.SetAllLevels)
}

func (s *Server) handleSetModule(c *gin.Context) {
	s.updateDimension(c, s.model.SetModuleSelected, s.model.SetAllModules)
}

func (s *Server) updateDimension(c *gin.Context, setOne func(string, bool) bool, setAll func(bool)) {
	var body dimensionUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if body.All != nil {
		setAll(*body.All)
	} else if !setOne(body.Name, body.Selected) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown filter option: " + body.Name})
		return
	}
	c.JSON(http.StatusOK, gin.H{"visible": len(s.model.Visible())})
}
