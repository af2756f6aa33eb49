package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog_api/internal/models"
)

func (r *GormRepo) CreateToken(ctx context.Context, token *models.AccessToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) FindTokenByHash(ctx context.Context, hash string) (*models.AccessToken, error) {
	var token models.AccessToken
	if err := r.DB.WithContext(ctx).Where("token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) TouchToken(ctx context.Context, id uint, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&models.AccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

func (r *GormRepo) DeleteToken(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.AccessToken{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountUserTokens(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.AccessToken{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *GormRepo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&models.AccessToken{})
	return res.RowsAffected, res.Error
}
