package service

import (
	"context"
	"strings"

	"github.com/ecofinds/internal/cache"
	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/logger"
	"github.com/ecofinds/internal/models"
	"github.com/ecofinds/internal/repository"

	"gorm.io/gorm"
)

// UpdateProfileInput 资料修改输入，nil 表示不修改
type UpdateProfileInput struct {
	Username     *string
	Bio          *string
	Location     *string
	ProfileImage *string
}

// UserService 用户资料与账号管理
type UserService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// GetPublicProfile 获取公开资料
func (s *UserService) GetPublicProfile(id uint) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Summary(), nil
}

// UpdateProfile 修改资料，用户名需全局唯一
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, newValidationError("username", "validation.username")
		}
		if username != user.Username {
			exist, err := s.userRepo.GetByUsername(username)
			if err != nil {
				return nil, err
			}
			if exist != nil && exist.ID != user.ID {
				return nil, ErrUsernameTaken
			}
			user.Username = username
		}
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Location != nil {
		user.Location = strings.TrimSpace(*input.Location)
	}
	if input.ProfileImage != nil {
		user.ProfileImage = strings.TrimSpace(*input.ProfileImage)
	}

	if err := s.userRepo.Update(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount 注销账号：墓碑化用户、清空购物车、下架在售商品，购买记录保留
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	var withdrawn int64
	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		if _, err := s.cartRepo.WithTx(tx).ClearByUser(userID); err != nil {
			return err
		}
		count, err := s.productRepo.WithTx(tx).WithdrawAvailableBySeller(userID)
		if err != nil {
			return err
		}
		withdrawn = count
		return s.userRepo.WithTx(tx).Tombstone(userID)
	})
	if err != nil {
		return err
	}
	if err := cache.DelUserAuthState(ctx, userID); err != nil {
		logger.FromContext(ctx).Warnw("account_delete_auth_cache_failed", "user_id", userID, "error", err)
	}
	logger.FromContext(ctx).Infow("account_deleted", "user_id", userID, "withdrawn_products", withdrawn)
	return nil
}

// ListUsers 后台用户列表
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// UpdateUserStatus 后台启用或禁用用户，禁用即吊销已签发 Token
func (s *UserService) UpdateUserStatus(ctx context.Context, id uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, newValidationError("status", "validation.status")
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if err := s.userRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	_ = cache.DelUserAuthState(ctx, id)
	return s.userRepo.GetByID(id)
}
