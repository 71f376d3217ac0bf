// Package api contains all endpoints available
package api

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"bitwise74/gallery-api/cloudflare"
	"bitwise74/gallery-api/db"
	"bitwise74/gallery-api/middleware"
	"bitwise74/gallery-api/notes"
	"bitwise74/gallery-api/service"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var store = persist.NewMemoryStore(time.Minute)

type API struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Store     service.ObjectStore
	Sessions  *service.SessionStore
	Projector *service.Projector
	Admission *service.Admission
	Stats     *service.StatsService
	Notes     *notes.Client
}

func NewRouter() (*API, error) {
	a := &API{}

	makeLogger()

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger database, %w", err)
	}
	a.DB = database

	r2, err := cloudflare.NewR2()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}
	a.Store = r2

	a.Stats = &service.StatsService{DB: database, Store: r2}
	a.Sessions = service.NewSessionStore(
		viper.GetString("jwt.secret"),
		time.Duration(viper.GetInt("admin.session_ttl"))*time.Second,
	)

	publicBase := strings.TrimRight(viper.GetString("cloudflare.public_url"), "/")

	// Both strategy choices happen exactly once. Nothing re-decides them
	// per request.
	var resolver service.URLResolver
	if publicBase != "" {
		resolver = &service.PublicResolver{Base: publicBase}
	} else {
		resolver = &service.SignedResolver{
			Store:  r2,
			Expiry: time.Duration(viper.GetInt("gallery.url_ttl")) * time.Second,
		}
	}

	var source service.Source
	switch viper.GetString("gallery.source") {
	case "ledger":
		source = &service.LedgerSource{DB: database}
	case "drive":
		source = service.NewDriveSource(
			viper.GetString("drive.folder_url"),
			viper.GetString("drive.api_key"),
		)
	default:
		source = &service.BucketSource{
			Store:   r2,
			MaxKeys: int32(viper.GetInt("gallery.max_items")),
		}
	}

	a.Projector = &service.Projector{
		Source:   source,
		Resolver: resolver,
		MaxItems: viper.GetInt("gallery.max_items"),
	}

	a.Admission = &service.Admission{
		Store:      r2,
		Stats:      a.Stats,
		DB:         database,
		Ledger:     viper.GetString("gallery.source") == "ledger",
		PublicBase: publicBase,
		Expiry:     time.Duration(viper.GetInt("upload.presign_ttl")) * time.Second,
	}

	if viper.GetString("notes.url") != "" {
		a.Notes = notes.New(viper.GetString("notes.url"), viper.GetString("notes.api_key"))
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Upload-Key"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	admin := middleware.NewAdminMiddleware(a.Sessions)
	gate := middleware.NewUploadGateMiddleware(a.Sessions)

	// HEAD /heartbeat		-> Used to check if the server is alive
	router.HEAD("/heartbeat", a.Heartbeat)

	// GET /gallery			-> Lists the newest stored objects with playable URLs
	router.GET("/gallery", cacheFor(10), a.GalleryFetch)

	// GET /presign			-> Issues a write credential for a direct upload
	router.GET("/presign", gate, a.Presign)

	// GET /stats			-> Returns the local stats ledger
	router.GET("/stats", cacheFor(30), a.StatsFetch)

	// POST /sync-stats		-> Recounts the ledger from the live listing
	router.POST("/sync-stats", admin, a.StatsSync)

	n := router.Group("/notes")
	{
		// GET /notes			-> Relays the note list from the external data service
		n.GET("", a.NotesFetch)

		// DELETE /notes/:id		-> Deletes a note (admin only)
		n.DELETE("/:id", admin, a.NotesDelete)
	}

	adm := router.Group("/admin")
	{
		// POST /admin/login		-> Establishes an admin session
		adm.POST("/login", middleware.BodySizeLimiter(1<<20), a.AdminLogin)

		// POST /admin/logout		-> Revokes the current admin session
		adm.POST("/logout", admin, a.AdminLogout)

		// DELETE /admin/delete		-> Deletes an object by key
		adm.DELETE("/delete", admin, a.AdminDelete)
	}

	// The gallery page itself, when deployed alongside the API
	if _, err := os.Stat("public"); err == nil {
		router.NoRoute(gin.WrapH(http.FileServer(http.Dir("public"))))
	}

	a.Sessions.StartJanitor(time.Minute)

	return a, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
