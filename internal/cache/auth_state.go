package cache

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ecofinds/internal/constants"
	"github.com/ecofinds/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// 鉴权快照校验失败原因
var (
	ErrTokenRevoked = errors.New("token revoked")
	ErrUserInactive = errors.New("user inactive")
)

// UserAuthState 用户鉴权快照，token_invalid_before 为 Unix 秒，0 表示未设置
type UserAuthState struct {
	UserID             uint   `json:"user_id"`
	Status             string `json:"status"`
	TokenVersion       uint64 `json:"token_version"`
	TokenInvalidBefore int64  `json:"token_invalid_before"`
	Deleted            bool   `json:"deleted"`
	CachedAt           int64  `json:"cached_at"`
}

// Check 校验签发于 issuedAt、版本为 tokenVersion 的 token 是否仍然有效
func (s *UserAuthState) Check(tokenVersion uint64, issuedAt time.Time) error {
	if s == nil || s.Deleted {
		return ErrTokenRevoked
	}
	if strings.ToLower(strings.TrimSpace(s.Status)) != constants.UserStatusActive {
		return ErrUserInactive
	}
	if tokenVersion != s.TokenVersion {
		return ErrTokenRevoked
	}
	if s.TokenInvalidBefore > 0 && (issuedAt.IsZero() || issuedAt.Unix() < s.TokenInvalidBefore) {
		return ErrTokenRevoked
	}
	return nil
}

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	state := &UserAuthState{
		UserID:       user.ID,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		Deleted:      user.DeletedAt.Valid,
		CachedAt:     time.Now().Unix(),
	}
	if user.TokenInvalidBefore != nil {
		state.TokenInvalidBefore = user.TokenInvalidBefore.Unix()
	}
	return state
}

// GetUserAuthState 读取快照，未命中或 Redis 未启用时 hit 为 false
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	state := &UserAuthState{}
	hit, err := GetJSON(ctx, authStateKey(userID), state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state, true, nil
}

func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState 状态变更、注销或改密后调用
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authStateKey(userID))
}
