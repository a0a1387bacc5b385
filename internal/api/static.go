package api

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/weathercloset/weathercloset/internal/logger"
)

//go:embed assets
var embeddedAssets embed.FS

// StaticFileServer serves /static assets and uploaded images. Assets come from
// the configured static directory when it holds js/app.js (dev mode) and from
// the embedded copy otherwise.
type StaticFileServer struct {
	staticDir string
	imageDir  string

	devMode  bool
	initOnce sync.Once

	assetsFS fs.FS
}

// NewStaticFileServer creates a static file server. An empty imageDir
// disables /static/images.
func NewStaticFileServer(staticDir, imageDir string) *StaticFileServer {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		GetLogger().Error("embedded assets unavailable", logger.Error(err))
	}
	return &StaticFileServer{
		staticDir: staticDir,
		imageDir:  imageDir,
		assetsFS:  sub,
	}
}

// initDevMode enables disk serving when the static directory carries the app script.
func (sfs *StaticFileServer) initDevMode() {
	sfs.initOnce.Do(func() {
		if sfs.staticDir == "" {
			return
		}
		indexPath := filepath.Join(sfs.staticDir, "js", "app.js")
		if info, err := os.Stat(indexPath); err == nil && !info.IsDir() {
			sfs.devMode = true
			GetLogger().Info("serving static assets from disk", logger.String("path", sfs.staticDir))
		}
	})
}

// IsDevMode returns whether assets are served from disk.
func (sfs *StaticFileServer) IsDevMode() bool {
	sfs.initDevMode()
	return sfs.devMode
}

// RegisterRoutes registers the static routes on e.
func (sfs *StaticFileServer) RegisterRoutes(e *echo.Echo) {
	sfs.initDevMode()

	if sfs.imageDir != "" {
		e.GET("/static/images/*", sfs.handleImageRequest)
	}
	e.GET("/static/*", sfs.handleAssetRequest)
}

func (sfs *StaticFileServer) handleImageRequest(c echo.Context) error {
	return sfs.serveFromDisk(c, sfs.imageDir, c.Param("*"), false)
}

// handleAssetRequest serves assets from disk in dev mode, otherwise from the embedded copy.
func (sfs *StaticFileServer) handleAssetRequest(c echo.Context) error {
	path := c.Param("*")
	if sfs.devMode {
		return sfs.serveFromDisk(c, sfs.staticDir, path, true)
	}
	return sfs.serveFromEmbed(c, path)
}

// serveFromDisk serves a file from dir. os.OpenRoot keeps the lookup inside dir.
func (sfs *StaticFileServer) serveFromDisk(c echo.Context, dir, path string, noCache bool) error {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	defer closeWithLog(root, dir)

	file, err := openFileFromRoot(root, path)
	if err != nil {
		return err
	}
	defer closeWithLog(file, path)

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	c.Response().Header().Set(echo.HeaderContentType, getMIMEType(path))
	if noCache {
		c.Response().Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	}
	http.ServeContent(c.Response(), c.Request(), filepath.Base(path), stat.ModTime(), file)
	return nil
}

// openFileFromRoot opens a file within the sandboxed root directory.
func openFileFromRoot(root *os.Root, path string) (*os.File, error) {
	file, err := root.Open(path)
	if err == nil {
		return file, nil
	}

	switch {
	case os.IsNotExist(err):
		return nil, echo.NewHTTPError(http.StatusNotFound, "File not found")
	case os.IsPermission(err):
		return nil, echo.NewHTTPError(http.StatusForbidden, "Access denied")
	default:
		// Paths escaping the root land here as well.
		GetLogger().Debug("failed to open static file", logger.String("path", path), logger.Error(err))
		return nil, echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
}

// serveFromEmbed serves assets compiled into the binary.
func (sfs *StaticFileServer) serveFromEmbed(c echo.Context, path string) error {
	if sfs.assetsFS == nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	file, err := sfs.assetsFS.Open(path)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	defer closeWithLog(file, path)

	stat, err := file.Stat()
	if err != nil || stat.IsDir() {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	contentType := getMIMEType(path)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().Header().Set("Cache-Control", "public, max-age=3600")

	if ra, ok := file.(io.ReaderAt); ok {
		http.ServeContent(c.Response(), c.Request(), filepath.Base(path), stat.ModTime(), io.NewSectionReader(ra, 0, stat.Size()))
		return nil
	}
	return c.Stream(http.StatusOK, contentType, file)
}

func closeWithLog(c io.Closer, name string) {
	if err := c.Close(); err != nil {
		GetLogger().Warn("error closing file", logger.String("path", name), logger.Error(err))
	}
}

// getMIMEType returns the MIME type for a file based on its extension.
func getMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".html":
		return "text/html; charset=utf-8"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
