package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bizhub/backend/internal/domain/identity"
	"github.com/bizhub/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID with permissions loaded
func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadPermissions(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByCode finds a role by its code
func (r *GormRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	var role identity.Role
	if err := r.db.WithContext(ctx).
		First(&role, "code = ?", strings.ToLower(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadPermissions(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByIDs finds roles by their IDs
func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Role, error) {
	if len(ids) == 0 {
		return []identity.Role{}, nil
	}

	var roles []identity.Role
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("sort_order ASC, code ASC").
		Find(&roles).Error; err != nil {
		return nil, err
	}

	for i := range roles {
		if err := r.loadPermissions(ctx, &roles[i]); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// FindAll finds roles matching the filter
func (r *GormRoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Role, error) {
	var roles []identity.Role
	query := r.db.WithContext(ctx).Model(&identity.Role{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, RoleSortFields, "sort_order")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}

	for i := range roles {
		if err := r.loadPermissions(ctx, &roles[i]); err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// Save creates or updates a role and its permissions
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		return r.replacePermissions(tx, role)
	})
}

// Delete deletes a role and its permission rows
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&identity.RolePermission{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&identity.UserRole{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&identity.Role{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts roles matching the filter
func (r *GormRoleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&identity.Role{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a role code is already taken
func (r *GormRoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&identity.Role{}).
		Where("code = ?", strings.ToLower(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// loadPermissions populates the role's permissions from the join table
func (r *GormRoleRepository) loadPermissions(ctx context.Context, role *identity.Role) error {
	var rows []identity.RolePermission
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", role.ID).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return err
	}

	permissions := make([]identity.Permission, 0, len(rows))
	for _, row := range rows {
		perm, err := identity.NewPermissionFromCode(row.Code)
		if err != nil {
			// Skip malformed rows rather than failing the whole load
			continue
		}
		permissions = append(permissions, *perm)
	}
	role.Permissions = permissions
	return nil
}

// replacePermissions rewrites the role's permission rows
func (r *GormRoleRepository) replacePermissions(tx *gorm.DB, role *identity.Role) error {
	if err := tx.Delete(&identity.RolePermission{}, "role_id = ?", role.ID).Error; err != nil {
		return err
	}
	if len(role.Permissions) == 0 {
		return nil
	}

	rows := make([]identity.RolePermission, len(role.Permissions))
	for i, perm := range role.Permissions {
		rows[i] = identity.RolePermission{
			RoleID:    role.ID,
			Code:      perm.Code,
			CreatedAt: time.Now(),
		}
	}
	return tx.Create(&rows).Error
}

// Ensure GormRoleRepository implements RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
