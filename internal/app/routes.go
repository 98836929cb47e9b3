package app

import (
	"net/http"

	"Tasks/internal/access"
	"Tasks/internal/auth"
	"Tasks/internal/cache"
	"Tasks/internal/config"
	"Tasks/internal/handlers"
	"Tasks/internal/repo"
	"Tasks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps is everything the routes need. Tests build it from fakes.
type Deps struct {
	Sessions      *auth.Verifier
	Todos         *handlers.TodoHandler
	Subscriptions *handlers.SubscriptionHandler
	Admin         *handlers.AdminHandler
	Webhooks      *handlers.WebhookHandler
}

func newDeps(cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) (Deps, error) {
	sessions, err := auth.NewVerifier(cfg.Identity.PublicKeyPEM, cfg.Identity.Secret, cfg.Identity.Issuer)
	if err != nil {
		return Deps{}, err
	}
	hooks, err := auth.NewWebhookVerifier(cfg.Identity.WebhookSecret)
	if err != nil {
		return Deps{}, err
	}

	userRepo := repo.NewPGUserRepo(db)
	todoRepo := repo.NewPGTodoRepo(db)
	todoCache := cache.NewTodoCache(rdb, cfg.Redis.DefaultTTL.Duration())

	subSvc := service.NewSubscriptionService(userRepo)
	todoSvc := service.NewTodoService(todoRepo, subSvc, todoCache, service.TodoLimits{
		FreeLimit: cfg.Todo.FreeLimit,
		PageSize:  cfg.Todo.PageSize,
	})
	adminSvc := service.NewAdminService(userRepo, todoSvc, subSvc)
	identitySvc := service.NewIdentityService(userRepo, todoCache)

	return Deps{
		Sessions:      sessions,
		Todos:         handlers.NewTodoHandler(todoSvc),
		Subscriptions: handlers.NewSubscriptionHandler(subSvc),
		Admin:         handlers.NewAdminHandler(adminSvc),
		Webhooks:      handlers.NewWebhookHandler(hooks, identitySvc),
	}, nil
}

// Setup registers all routes on the given engine. Open routes come first;
// everything else passes auth.Resolve and access.Gate.
func Setup(r *gin.Engine, cfg config.Config, d Deps) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))
	r.POST("/api/webhooks", d.Webhooks.Receive)

	gated := r.Group("", auth.Resolve(d.Sessions), access.Gate())
	registerPages(gated)

	api := gated.Group("/api")
	registerTodoRoutes(api, d.Todos)
	registerSubscriptionRoutes(api, d.Subscriptions)
	registerAdminRoutes(api, d.Admin)
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerPages(r *gin.RouterGroup) {
	r.GET(access.LandingPath, handlers.Page("landing"))
	r.GET(access.SignInPath, handlers.Page("sign-in"))
	r.GET(access.SignUpPath, handlers.Page("sign-up"))
	r.GET(access.DashboardPath, handlers.Page("dashboard"))
	r.GET(access.AdminDashboardPath, handlers.Page("admin-dashboard"))
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.GET("/todos", h.List)
	api.POST("/todos", h.Create)
	api.PUT("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
}

func registerSubscriptionRoutes(api *gin.RouterGroup, h *handlers.SubscriptionHandler) {
	api.GET("/subscription", h.Get)
	api.POST("/subscription", h.Activate)
}

func registerAdminRoutes(api *gin.RouterGroup, h *handlers.AdminHandler) {
	api.GET("/admin", h.Lookup)
	api.PUT("/admin", h.Update)
	api.DELETE("/admin", h.Delete)
}
