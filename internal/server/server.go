package server

import (
	"context"
	"net/http"
	"time"

	"anoa.com/kulupportal/internal/config"
	"anoa.com/kulupportal/internal/middleware"
	"anoa.com/kulupportal/internal/policy"
	"anoa.com/kulupportal/pkg/metrics"
	"anoa.com/kulupportal/pkg/storage"
	"anoa.com/kulupportal/pkg/token"

	contentHttp "anoa.com/kulupportal/internal/modules/content/delivery/http"
	contentRepo "anoa.com/kulupportal/internal/modules/content/repository"
	contentService "anoa.com/kulupportal/internal/modules/content/service"

	eventHttp "anoa.com/kulupportal/internal/modules/event/delivery/http"
	eventService "anoa.com/kulupportal/internal/modules/event/service"

	memberHttp "anoa.com/kulupportal/internal/modules/member/delivery/http"
	memberService "anoa.com/kulupportal/internal/modules/member/service"

	projectHttp "anoa.com/kulupportal/internal/modules/project/delivery/http"
	projectRepo "anoa.com/kulupportal/internal/modules/project/repository"
	projectService "anoa.com/kulupportal/internal/modules/project/service"

	searchService "anoa.com/kulupportal/internal/modules/search/service"

	uploadHttp "anoa.com/kulupportal/internal/modules/upload/delivery/http"
	uploadService "anoa.com/kulupportal/internal/modules/upload/service"

	userHttp "anoa.com/kulupportal/internal/modules/user/delivery/http"
	userRepo "anoa.com/kulupportal/internal/modules/user/repository"
	userService "anoa.com/kulupportal/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the external clients the server is built on. Redis, Meili,
// Storage and Identity may be nil.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Meili    meilisearch.ServiceManager
	Storage  storage.ImageStorage
	Identity userService.IdentityProvider
	Metrics  *metrics.Registry
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	if deps.Identity == nil {
		deps.Identity = userService.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	publisher := eventService.NewPublisher(deps.Redis)
	projectIndex := searchService.NewProjectIndex(context.Background(), deps.Meili)

	userRepo := userRepo.NewUserRepository(deps.DB)

	authSvc := userService.NewAuthService(userRepo, tokens, deps.Identity, deps.Redis, cfg.AllowedEmailDomain)
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.FrontendURL)

	profileSvc := memberService.NewProfileService(userRepo)
	memberSvc := memberService.NewMemberService(userRepo, publisher)
	memberHandler := memberHttp.NewMemberHandler(profileSvc, memberSvc)

	projectRepo := projectRepo.NewProjectRepository(deps.DB)
	projectSvc := projectService.NewProjectService(projectRepo, userRepo, projectIndex, publisher)
	projectHandler := projectHttp.NewProjectHandler(projectSvc)

	contentSvc := contentService.NewContentService(contentRepo.NewContentRepository(deps.DB), deps.Redis, cfg.ContentCacheTTL)
	announcementSvc := contentService.NewAnnouncementService(contentRepo.NewAnnouncementRepository(deps.DB))
	contentHandler := contentHttp.NewContentHandler(contentSvc, announcementSvc)

	uploadHandler := uploadHttp.NewUploadHandler(uploadService.NewUploadService(deps.Storage))
	eventHandler := eventHttp.NewEventHandler(publisher, cfg.Origins())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.Origins())

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(deps.Metrics))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, tokens)
	requireAuth := authMiddleware.RequireAuth()

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
		auth.GET("/session", requireAuth, authHandler.Session)
	}

	catalogue := api.Group("/catalogue")
	{
		catalogue.GET("/projects", projectHandler.ListCatalogue)
		catalogue.GET("/projects/search", projectHandler.SearchCatalogue)
	}

	api.GET("/contact", contentHandler.GetContact)
	api.GET("/sponsors", contentHandler.GetSponsors)
	api.GET("/announcements", authMiddleware.OptionalAuth(), contentHandler.ListAnnouncements)

	protected := api.Group("")
	protected.Use(requireAuth)
	{
		protected.GET("/members/me", memberHandler.GetOwnProfile)
		protected.PATCH("/members/me", memberHandler.SubmitOwnProfile)

		// review and removal are gated by the member service, which reports
		// founder targets as forbidden_role for every caller
		members := protected.Group("/members")
		{
			members.GET("", middleware.RequireCapability(policy.CanListMembers), memberHandler.ListMembers)
			members.PATCH("/:id", memberHandler.ReviewMember)
			members.DELETE("/:id", memberHandler.RemoveMember)
		}

		projects := protected.Group("/projects")
		projects.Use(middleware.RequireCapability(policy.CanAccessAdminArea))
		{
			projects.GET("", middleware.RequireCapability(policy.CanViewAllProjects), projectHandler.ListAllProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/my", projectHandler.ListMyProjects)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		protected.PUT("/contact", contentHandler.UpdateContact)
		protected.PUT("/sponsors", contentHandler.UpdateSponsors)

		protected.POST("/announcements", contentHandler.CreateAnnouncement)
		protected.PATCH("/announcements/:id", contentHandler.UpdateAnnouncement)
		protected.DELETE("/announcements/:id", contentHandler.DeleteAnnouncement)

		protected.POST("/upload", uploadHandler.UploadImage)
		protected.GET("/events/ws", eventHandler.Stream)
	}

	return &Server{
		engine:      router,
		db:          deps.DB,
		redisClient: deps.Redis,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
