package repository

import (
	"fmt"
	"time"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	UpdateStatus(id uint, status string) error
	Tombstone(id uint) error
	WithTx(tx *gorm.DB) *GormUserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) *GormUserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", email)
}

// GetByUsername 根据用户名获取用户
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("username = ?", username)
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return r.first("id = ?", id)
}

func (r *GormUserRepository) first(query string, args ...interface{}) (*models.User, error) {
	return firstOrNil[models.User](r.db.Where(query, args...))
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Keyword != "" {
		condition, count := buildLikeCondition(dbDialectName(r.db), []string{"email", "username"}, nil)
		query = query.Where(condition, repeatLikeArgs("%"+filter.Keyword+"%", count)...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	query, total, err := countPage(query, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateStatus 更新用户状态，禁用时使已签发 Token 失效
func (r *GormUserRepository) UpdateStatus(id uint, status string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == constants.UserStatusDisabled {
		updates["token_invalid_before"] = now
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// Tombstone 注销用户：改写唯一字段释放用户名与邮箱，吊销 Token 并软删除
func (r *GormUserRepository) Tombstone(id uint) error {
	now := time.Now()
	updates := map[string]interface{}{
		"username":             fmt.Sprintf("deleted-user-%d", id),
		"email":                fmt.Sprintf("deleted+%d@users.invalid", id),
		"bio":                  "",
		"location":             "",
		"profile_image":        "",
		"status":               constants.UserStatusDisabled,
		"token_invalid_before": now,
		"token_version":        gorm.Expr("token_version + 1"),
		"updated_at":           now,
	}
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.User{}, id).Error
}
