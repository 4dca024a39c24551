package router

import (
	"time"

	"agendasalon/internal/config"
	"agendasalon/internal/handler"
	"agendasalon/internal/infra"
	"agendasalon/internal/middleware"
	"agendasalon/internal/repository"
	"agendasalon/internal/service"
	"agendasalon/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(
	cfg *config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	loc *time.Location,
	facturador infra.Facturador,
	facturadorCB *infra.CircuitBreaker,
	dispatcher *worker.Dispatcher,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	empleadoRepo := repository.NewEmpleadoRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	recursoRepo := repository.NewRecursoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	horarioLocalRepo := repository.NewHorarioLocalRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	senaRepo := repository.NewSenaRepository(db)
	giftcardRepo := repository.NewGiftCardRepository(db)
	pagoRepo := repository.NewPagoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	disponibilidadSvc := service.NewDisponibilidadService(empleadoRepo, loc)
	recursoSvc := service.NewRecursoService(servicioRepo, recursoRepo, turnoRepo, loc)
	agendaSvc := service.NewAgendaService(
		turnoRepo, clienteRepo, servicioRepo, empleadoRepo, horarioLocalRepo,
		disponibilidadSvc, recursoSvc, dispatcher, loc, cfg.ToleranciaInicioMinutos,
	)
	cobroSvc := service.NewCobroService(
		turnoRepo, servicioRepo, productoRepo, empleadoRepo, senaRepo, giftcardRepo, pagoRepo,
		facturador, facturadorCB, dispatcher, cfg.FacturadorTimeout(), cfg.UmbralPenalidadMinutos,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	turnosH := handler.NewTurnosHandler(agendaSvc)
	recursosH := handler.NewRecursosHandler(recursoSvc)
	cobrosH := handler.NewCobrosHandler(cobroSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, facturadorCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: recepcion, supervisor, administrador — declared per-endpoint
		todos := middleware.RequireRole("recepcion", "supervisor", "administrador")

		v1.POST("/turnos", todos, turnosH.CrearTurnos)
		v1.GET("/turnos", todos, turnosH.ListarTurnos)
		v1.PUT("/turnos/:id", todos, turnosH.EditarTurno)
		v1.DELETE("/turnos/:id", todos, turnosH.CancelarTurno)
		v1.POST("/turnos/:id/iniciar", todos, turnosH.IniciarTurno)
		v1.POST("/turnos/:id/confirmacion", todos, turnosH.EnviarConfirmacion)
		v1.PUT("/turnos/:id/confirmacion", todos, turnosH.ResponderConfirmacion)

		v1.GET("/empleados/:id/agenda", todos, turnosH.AgendaEmpleado)

		v1.POST("/recursos/disponibilidad", todos, recursosH.VerificarDisponibilidad)

		v1.POST("/cobros", todos, cobrosH.CerrarTurno)
		v1.POST("/cobros/grupo", todos, cobrosH.CerrarGrupo)
		v1.GET("/cobros/:id/recibo", todos, cobrosH.DescargarRecibo)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
