// Package web provides the settlements panel web server: HTTP/HTTPS serving,
// routing, sessions, templates and the shared data service.
package web

import (
	"context"
	"crypto/tls"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/proveedores/liquidaciones/caching"
	"github.com/proveedores/liquidaciones/config"
	"github.com/proveedores/liquidaciones/database"
	"github.com/proveedores/liquidaciones/logger"
	"github.com/proveedores/liquidaciones/util/common"
	"github.com/proveedores/liquidaciones/util/random"
	"github.com/proveedores/liquidaciones/web/controller"
	"github.com/proveedores/liquidaciones/web/job"
	"github.com/proveedores/liquidaciones/web/locale"
	"github.com/proveedores/liquidaciones/web/middleware"
	"github.com/proveedores/liquidaciones/web/service"
	"github.com/proveedores/liquidaciones/web/session"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed assets
var assetsFS embed.FS

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

var startTime = time.Now()

type wrapAssetsFS struct {
	embed.FS
}

func (f *wrapAssetsFS) Open(name string) (fs.File, error) {
	file, err := f.FS.Open("assets/" + name)
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFile{File: file}, nil
}

type wrapAssetsFile struct {
	fs.File
}

func (f *wrapAssetsFile) Stat() (fs.FileInfo, error) {
	info, err := f.File.Stat()
	if err != nil {
		return nil, err
	}
	return &wrapAssetsFileInfo{FileInfo: info}, nil
}

// wrapAssetsFileInfo pins ModTime so embedded assets get a stable Last-Modified.
type wrapAssetsFileInfo struct {
	fs.FileInfo
}

func (f *wrapAssetsFileInfo) ModTime() time.Time {
	return startTime
}

// Server is the panel web server. All controllers share one DataService and
// therefore one cached snapshot of the spreadsheet.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	source      database.Source
	sourceCfg   config.SourceConfig
	dataService *service.DataService

	index *controller.IndexController
	panel *controller.PanelController
	api   *controller.APIController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server reading from source.
func NewServer(source database.Source, cfg config.SourceConfig) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		source:    source,
		sourceCfg: cfg,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// getHtmlFiles walks the local `web/html` directory and returns a list of
// template file paths. Used only in debug/development mode.
func (s *Server) getHtmlFiles() ([]string, error) {
	files := make([]string, 0)
	dir, _ := os.Getwd()
	err := fs.WalkDir(os.DirFS(dir), "web/html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// getHtmlTemplate parses embedded HTML templates from the bundled `htmlFS`.
func (s *Server) getHtmlTemplate() (*template.Template, error) {
	t := template.New("")
	err := fs.WalkDir(htmlFS, "html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			newT, err := t.ParseFS(htmlFS, path+"/*.html")
			if err != nil {
				// ignore folders without matches
				return nil
			}
			t = newT
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func sessionSecret() []byte {
	secret := config.GetSessionSecret()
	if secret == "" {
		logger.Warning("LIQ_SESSION_SECRET is not set, sessions will not survive a restart")
		secret = random.Seq(32)
	}
	return []byte(secret)
}

// initRouter initializes Gin, registers middleware, templates, static assets,
// controllers and returns the configured engine.
func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()
	if err := engine.SetTrustedProxies(config.GetTrustedProxies()); err != nil {
		return nil, err
	}

	if domain := config.GetDomain(); domain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(domain))
	}

	basePath := config.GetBasePath()
	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{basePath + "panel/export", basePath + "panel/chart.png"}),
	))

	engine.Use(sessions.Sessions(session.CookieName, cookie.NewStore(sessionSecret())))

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return nil, err
	}
	engine.Use(locale.LocalizerMiddleware())
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
	})
	engine.Use(middleware.RequestIDMiddleware())

	// Static files & templates
	if config.IsDebug() {
		files, err := s.getHtmlFiles()
		if err != nil {
			return nil, err
		}
		engine.LoadHTMLFiles(files...)
		engine.StaticFS(basePath+"assets", http.FS(os.DirFS("web/assets")))
	} else {
		tpl, err := s.getHtmlTemplate()
		if err != nil {
			return nil, err
		}
		engine.SetHTMLTemplate(tpl)
		engine.StaticFS(basePath+"assets", http.FS(&wrapAssetsFS{FS: assetsFS}))
	}

	cache := caching.NewCache(s.sourceCfg.CacheTTL)
	cache.SetFailureBackoff(s.sourceCfg.FailureBackoff)
	s.dataService = service.NewDataService(s.source, cache, s.sourceCfg.FetchTimeout)

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g, s.dataService)
	s.panel = controller.NewPanelController(g, s.dataService)
	s.api = controller.NewAPIController(g, s.dataService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the background spreadsheet refresh when enabled.
func (s *Server) startTask() error {
	interval := s.sourceCfg.RefreshInterval
	if interval <= 0 {
		return nil
	}
	s.cron = job.NewScheduler()
	if _, err := s.cron.AddJob("@every "+interval.String(), job.NewRefreshSourceJob(s.dataService)); err != nil {
		return err
	}
	s.cron.Start()
	logger.Infof("Spreadsheet refresh scheduled every %v", interval)
	return nil
}

// Start initializes and starts the web server.
func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	certFile, keyFile := config.GetCertFile(), config.GetKeyFile()
	if certFile != "" || keyFile != "" {
		if cert, err := tls.LoadX509KeyPair(certFile, keyFile); err == nil {
			cfg := &tls.Config{Certificates: []tls.Certificate{cert}}
			listener = tls.NewListener(listener, cfg)
			logger.Info("Web server running HTTPS on", listener.Addr())
		} else {
			logger.Error("Error loading certificates:", err)
			logger.Info("Web server running HTTP on", listener.Addr())
		}
	} else {
		logger.Info("Web server running HTTP on", listener.Addr())
	}
	logger.Infof("Spreadsheet %s, cache ttl %v", s.sourceCfg.SpreadsheetKey, s.sourceCfg.CacheTTL)

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("web server stopped:", err)
		}
	}()

	return s.startTask()
}

// Stop gracefully shuts down the web server.
func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

// GetCtx returns the server's context.
func (s *Server) GetCtx() context.Context { return s.ctx }

// GetCron returns the refresh scheduler, nil when refresh is disabled.
func (s *Server) GetCron() *cron.Cron { return s.cron }
