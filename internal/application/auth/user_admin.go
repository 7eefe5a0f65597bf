package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/almacen-api/internal/application/audit"
	"github.com/tu-usuario/almacen-api/internal/domain"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// Acciones de auditoría de administración de usuarios.
const (
	ActionUserCreate     = "user.create"
	ActionUserRoleChange = "user.role_change"
)

// UserAdminUseCase operaciones administrativas sobre usuarios: alta y
// reasignación de rol. Los usuarios nunca se borran físicamente para que las
// referencias user_id de la auditoría histórica sigan resolviendo.
type UserAdminUseCase struct {
	userRepo repository.UserRepository
	rbacRepo repository.RBACRepository
	recorder *audit.Recorder
}

// NewUserAdminUseCase construye el caso de uso.
func NewUserAdminUseCase(userRepo repository.UserRepository, rbacRepo repository.RBACRepository, recorder *audit.Recorder) *UserAdminUseCase {
	return &UserAdminUseCase{userRepo: userRepo, rbacRepo: rbacRepo, recorder: recorder}
}

// CreateUser da de alta un usuario con su rol inicial.
func (uc *UserAdminUseCase) CreateUser(ctx context.Context, actor audit.Actor, email, password, name string, roleID int64) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 8 || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.rbacRepo.GetRole(ctx, roleID); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		RoleID:       roleID,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.recorder.Record(ctx, actor, ActionUserCreate, "user", user.ID, map[string]any{
		"email":   user.Email,
		"role_id": user.RoleID,
	})
	return user, nil
}

// ReassignRole cambia el rol vigente de un usuario.
func (uc *UserAdminUseCase) ReassignRole(ctx context.Context, actor audit.Actor, userID string, roleID int64) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := uc.rbacRepo.GetRole(ctx, roleID); err != nil {
		return err
	}
	if err := uc.userRepo.UpdateRole(ctx, userID, roleID); err != nil {
		return err
	}
	uc.recorder.Record(ctx, actor, ActionUserRoleChange, "user", userID, map[string]any{
		"previous_role_id": user.RoleID,
		"new_role_id":      roleID,
	})
	return nil
}
