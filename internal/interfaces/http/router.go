package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/access"
	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/application/ledger"
	"github.com/tu-usuario/almacen-api/internal/application/timeline"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC *ledger.MovementUseCase
	BalanceUC  *ledger.BalanceUseCase
	TimelineUC *timeline.TimelineUseCase
	AuditQuery *audit.QueryService
	AuthUC     *auth.AuthUseCase
	UserAdmin  *auth.UserAdminUseCase
	Registry   *access.RegistryUseCase
	Gate       *access.Gate
	JWTSecret  string
}

// Router registra las rutas de la API. Cada ruta mutadora o de consulta
// sensible se ata a su permiso canónico vía RequirePermission; el gate decide,
// los handlers no vuelven a verificar.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Operaciones de negocio (cada una con su permiso {dominio}.create)
	movementHandler := NewMovementHandler(deps.MovementUC)
	protected.Post("/opening", RequirePermission(access.PermOpeningCreate, deps.Gate), movementHandler.Opening)
	protected.Post("/dispatch", RequirePermission(access.PermDispatchCreate, deps.Gate), movementHandler.Dispatch)
	protected.Post("/returns", RequirePermission(access.PermReturnsCreate, deps.Gate), movementHandler.Return)
	protected.Post("/damage", RequirePermission(access.PermDamageCreate, deps.Gate), movementHandler.Damage)
	protected.Post("/recovery", RequirePermission(access.PermRecoveryCreate, deps.Gate), movementHandler.Recovery)
	protected.Post("/self-transfer", RequirePermission(access.PermTransfersCreate, deps.Gate), movementHandler.SelfTransfer)

	// Saldos derivados
	stockHandler := NewStockHandler(deps.BalanceUC)
	protected.Get("/stock/:barcode/balance", RequirePermission(access.PermTimelineView, deps.Gate), stockHandler.Balance)

	// Timelines
	timelineHandler := NewTimelineHandler(deps.TimelineUC)
	protected.Get("/timeline/:barcode", RequirePermission(access.PermTimelineView, deps.Gate), timelineHandler.ByBarcode)
	protected.Get("/order-tracking/:id/timeline", RequirePermission(access.PermTimelineView, deps.Gate), timelineHandler.ByOrder)

	// Auditoría
	auditHandler := NewAuditHandler(deps.AuditQuery)
	protected.Get("/audit-logs", RequirePermission(access.PermAuditView, deps.Gate), auditHandler.List)
	protected.Get("/audit-logs/export", RequirePermission(access.PermAuditView, deps.Gate), auditHandler.Export)

	// Administración de usuarios, roles y permisos
	adminHandler := NewAdminHandler(deps.UserAdmin, deps.Registry)
	admin := protected.Group("/admin")
	admin.Post("/users", RequirePermission(access.PermUsersManage, deps.Gate), adminHandler.CreateUser)
	admin.Put("/users/:id/role", RequirePermission(access.PermUsersManage, deps.Gate), adminHandler.UpdateUserRole)
	admin.Get("/roles", RequirePermission(access.PermRolesManage, deps.Gate), adminHandler.ListRoles)
	admin.Post("/roles", RequirePermission(access.PermRolesManage, deps.Gate), adminHandler.CreateRole)
	admin.Get("/permissions", RequirePermission(access.PermRolesManage, deps.Gate), adminHandler.ListPermissions)
	admin.Post("/roles/:id/permissions", RequirePermission(access.PermRolesManage, deps.Gate), adminHandler.GrantPermission)
	admin.Delete("/roles/:id/permissions/:permissionId", RequirePermission(access.PermRolesManage, deps.Gate), adminHandler.RevokePermission)
}
