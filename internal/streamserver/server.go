package streamserver

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/voxtrace/voxtrace/internal/cache"
	"github.com/voxtrace/voxtrace/internal/config"
	"github.com/voxtrace/voxtrace/internal/logger"
	"github.com/voxtrace/voxtrace/internal/metrics"
	"github.com/voxtrace/voxtrace/internal/render"
	"github.com/voxtrace/voxtrace/internal/scene"
	"github.com/voxtrace/voxtrace/internal/shading"
	_ "github.com/voxtrace/voxtrace/internal/streamserver/docs"
)

// upgrader allows any origin by default, matching the teacher's
// development websocket server (cmd/ascii-pwa/server.go); production
// deployments restrict this via cfg.Security.AllowedOrigins.
func newUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, o := range allowedOrigins {
				if o == origin || o == "*" {
					return true
				}
			}
			return false
		},
	}
}

// Server hosts the serve command's render/healthz/metrics/websocket
// endpoints over a scene that can be hot-swapped by a model watcher
// without interrupting in-flight requests.
type Server struct {
	cfg      *config.Config
	auth     *AuthService
	limiter  *rateLimiter
	cache    *cache.FrameCache
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu         sync.RWMutex
	scene      *scene.Scene
	lights     []shading.Light
	generation uint64

	router *gin.Engine
}

// New builds a Server over an initial scene. cfg.Security.EnableAuth
// gates /frame and /ws behind the JWT middleware; cfg.RateLimit.Enabled
// additionally throttles /frame and /ws per client IP; /healthz,
// /metrics and /swagger are always open regardless.
func New(cfg *config.Config, sc *scene.Scene, lights []shading.Light, c *cache.FrameCache, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		auth:     NewAuthService(cfg.Security),
		limiter:  newRateLimiter(cfg.RateLimit),
		cache:    c,
		metrics:  m,
		upgrader: newUpgrader(cfg.Security.AllowedOrigins),
		scene:    sc,
		lights:   lights,
	}
	s.router = s.buildRouter()
	return s
}

// SwapScene replaces the live scene, bumping the generation counter so
// cached frames keyed to the old scene stop matching. Called by the
// serve command's watcher goroutine on a debounced model reload.
func (s *Server) SwapScene(sc *scene.Scene) {
	s.mu.Lock()
	s.scene = sc
	s.generation++
	s.mu.Unlock()
}

func (s *Server) currentScene() (*scene.Scene, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene, s.generation
}

// Run blocks serving HTTP on addr until the listener fails or the
// process is killed.
func (s *Server) Run(addr string) error {
	logger.WithComponent("streamserver").Info("listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), s.metricsMiddleware())

	r.GET("/healthz", s.handleHealthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	served := r.Group("/")
	if s.cfg.RateLimit.Enabled {
		served.Use(s.limiter.Middleware())
	}
	if s.cfg.Security.EnableAuth {
		served.Use(s.auth.Middleware())
	}
	served.GET("/frame", s.handleFrame)
	served.GET("/ws", s.handleWebSocket)

	return r
}

// metricsMiddleware records every served request's route and status
// class, feeding the http_requests_total/http_request_duration_seconds
// collectors the CLI's --stats output never needs but a scrape does.
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		s.metrics.RecordHTTPRequest(route, status, time.Since(start))
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	sc, generation := s.currentScene()
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"svo_count":  len(sc.SVOs),
		"bvh_nodes":  len(sc.BVH.Nodes),
		"generation": generation,
	})
}

// cameraFromQuery builds a Camera from the request's query parameters,
// falling back to cfg.Render defaults and a camera looking down -Z
// from (-4, 2, 2) when unset.
func (s *Server) cameraFromQuery(c *gin.Context) scene.Camera {
	width := queryInt(c, "width", s.cfg.Render.Width)
	height := queryInt(c, "height", s.cfg.Render.Height)
	fov := queryFloat(c, "fov", s.cfg.Render.FOVDegrees)
	ox := queryFloat(c, "ox", -4)
	oy := queryFloat(c, "oy", 2)
	oz := queryFloat(c, "oz", 2)

	return scene.Camera{
		Origin:     scene.Vec3{X: float32(ox), Y: float32(oy), Z: float32(oz)},
		Rotation:   scene.Identity4(),
		Width:      width,
		Height:     height,
		FOVDegrees: float32(fov),
	}
}

func (s *Server) renderFrame(cam scene.Camera) (*render.Frame, int64) {
	sc, generation := s.currentScene()
	gen := scene.NewRayGenerator(cam)

	var key string
	if s.cache != nil {
		key = cache.PoseKey(cam.Rotation, [3]float32{cam.Origin.X, cam.Origin.Y, cam.Origin.Z}, cam.Width, cam.Height, cam.FOVDegrees, generation)
		if cached, ok := s.cache.Get(key); ok {
			s.metrics.RecordCacheResult(true)
			return &render.Frame{Width: cam.Width, Height: cam.Height, Pixels: cached}, 0
		}
		s.metrics.RecordCacheResult(false)
	}

	start := time.Now()
	frame, rays := render.Render(sc, gen, cam, s.lights, render.Options{Workers: s.cfg.Render.Workers})
	s.metrics.RecordFrame(time.Since(start), rays)

	if s.cache != nil {
		s.cache.Set(key, frame.Pixels)
	}
	return frame, rays
}

func (s *Server) handleFrame(c *gin.Context) {
	cam := s.cameraFromQuery(c)
	frame, _ := s.renderFrame(cam)

	buf, err := encodePNG(frame)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf)
}

// handleWebSocket upgrades the connection and pushes a freshly
// rendered PNG frame for the client's chosen camera once per tick
// until the client disconnects, matching the teacher's websocket
// push loop (cmd/ascii-pwa/server.go).
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	cam := s.cameraFromQuery(c)
	interval := 200 * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var frameSeq uint64
	for range ticker.C {
		frame, _ := s.renderFrame(cam)
		buf, err := encodePNG(frame)
		if err != nil {
			s.metrics.RecordFrameDropped()
			continue
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, buf); err != nil {
			return
		}
		atomic.AddUint64(&frameSeq, 1)
	}
}

func encodePNG(frame *render.Frame) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			p := frame.Pixels[y*frame.Width+x]
			img.Set(x, y, color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xFF})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryFloat(c *gin.Context, key string, fallback float64) float64 {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
