package routes

import (
	"strings"

	"tenant-portal-backend/internal/api/handlers"
	"tenant-portal-backend/internal/api/middleware"
	"tenant-portal-backend/internal/auth"
	"tenant-portal-backend/internal/config"
	"tenant-portal-backend/internal/metrics"
	"tenant-portal-backend/internal/repository"
	"tenant-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Services bundles the application services built on one database handle
type Services struct {
	Organizations *service.OrganizationService
	Credentials   *service.CredentialService
	Members       *service.MemberProfileService
	Provisioning  *service.ProvisioningService
	Sessions      *service.SessionService
}

// NewServices wires repositories, hashing and token signing into the services
func NewServices(db *gorm.DB, cfg *config.Config) *Services {
	validator := service.NewValidator()

	repos := repository.NewRepositories(db)
	transactor := repository.NewTransactor(db)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret)

	organizationService := service.NewOrganizationService(repos.Organizations, validator)
	credentialService := service.NewCredentialService(repos.Credentials, repos.Tokens, hasher, issuer, validator)
	memberService := service.NewMemberProfileService(repos.Profiles, repos.Organizations, transactor, credentialService, validator)

	return &Services{
		Organizations: organizationService,
		Credentials:   credentialService,
		Members:       memberService,
		Provisioning: service.NewProvisioningService(
			transactor, organizationService, credentialService, memberService, validator, cfg.SignupAddressPlaceholder,
		),
		Sessions: service.NewSessionService(credentialService, memberService, validator),
	}
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	metrics.Init()

	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Metrics())

	services := NewServices(db, cfg)
	requireAuth := auth.NewAuthMiddleware(services.Sessions).RequireAuth()

	healthHandler := handlers.NewHealthHandler(db)
	organizationHandler := handlers.NewOrganizationHandler(services.Organizations, services.Members)
	userHandler := handlers.NewUserHandler(services.Members)
	authHandler := handlers.NewAuthHandler(services.Provisioning, services.Sessions)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		organizations := api.Group("/organizations")
		{
			handle(organizations, "GET", "", organizationHandler.ListOrganizations)
			handle(organizations, "POST", "", organizationHandler.CreateOrganization)
			handle(organizations, "GET", "/:id", organizationHandler.GetOrganization)
			handle(organizations, "PUT", "/:id", organizationHandler.UpdateOrganization)
			handle(organizations, "PATCH", "/:id", organizationHandler.PatchOrganization)
			handle(organizations, "DELETE", "/:id", organizationHandler.DeleteOrganization)
			handle(organizations, "GET", "/:id/users", organizationHandler.ListOrganizationUsers)
		}

		users := api.Group("/users")
		{
			handle(users, "GET", "", userHandler.ListUsers)
			handle(users, "POST", "", userHandler.CreateUser)
			handle(users, "GET", "/:id", userHandler.GetUser)
			handle(users, "PUT", "/:id", userHandler.UpdateUser)
			handle(users, "PATCH", "/:id", userHandler.PatchUser)
			handle(users, "DELETE", "/:id", userHandler.DeleteUser)
		}

		authRoutes := api.Group("/auth")
		{
			handle(authRoutes, "POST", "/signup", authHandler.Signup)
			handle(authRoutes, "POST", "/login", authHandler.Login)
			handle(authRoutes, "POST", "/logout", requireAuth, authHandler.Logout)
			handle(authRoutes, "GET", "/profile", requireAuth, authHandler.Profile)
			handle(authRoutes, "PUT", "/update-profile", requireAuth, authHandler.UpdateProfile)
			handle(authRoutes, "POST", "/user-registration", authHandler.RegisterUser)
		}

		handle(api, "GET", "/organizations-list", organizationHandler.ListOrganizations)
	}

	return router
}

// handle registers a route both with and without its trailing slash
func handle(group *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	bare := strings.TrimSuffix(path, "/")
	group.Handle(method, bare, handlers...)
	group.Handle(method, bare+"/", handlers...)
}
