package repository

import (
	"context"
	"errors"

	"live_shopping_service/internal/chat/domain"

	"gorm.io/gorm"
)

// ShowRepository definition show lifecycle read model，
// 檔期由賣家後台服務維護，聊天服務只讀狀態
type ShowRepository interface {
	AutoMigrate() error
	Create(ctx context.Context, show *domain.Show) error
	GetByID(ctx context.Context, id string) (*domain.Show, error)
	Update(ctx context.Context, show *domain.Show) error
	// FetchStatus 讀聊天可用性判斷所需的生命週期欄位
	FetchStatus(ctx context.Context, id string) (domain.ShowStatus, error)
	// SetLifecycle 只翻直播旗標，測試跟排程用
	SetLifecycle(ctx context.Context, id string, isLive, isEnding bool) error
	// 其他 CRUD ...
}

type showRepository struct {
	db *gorm.DB
}

// NewShowRepository create a ShowRepository
func NewShowRepository(db *gorm.DB) ShowRepository {
	return &showRepository{db: db}
}

func (r *showRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Show{})
}

func (r *showRepository) Create(ctx context.Context, show *domain.Show) error {
	return r.db.WithContext(ctx).Create(show).Error
}

func (r *showRepository) Update(ctx context.Context, show *domain.Show) error {
	return r.db.WithContext(ctx).Save(show).Error
}

func (r *showRepository) GetByID(ctx context.Context, id string) (*domain.Show, error) {
	var show domain.Show
	if err := r.db.WithContext(ctx).First(&show, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShowNotFound
		}
		return nil, err
	}
	return &show, nil
}

// FetchStatus 只撈兩個欄位，availability 輪詢會一直打這裡
func (r *showRepository) FetchStatus(ctx context.Context, id string) (domain.ShowStatus, error) {
	var status domain.ShowStatus
	err := r.db.WithContext(ctx).
		Model(&domain.Show{}).
		Select("is_live", "is_ending").
		Where("id = ?", id).
		Take(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return status, domain.ErrShowNotFound
		}
		return status, err
	}
	return status, nil
}

func (r *showRepository) SetLifecycle(ctx context.Context, id string, isLive, isEnding bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Show{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_live": isLive, "is_ending": isEnding})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrShowNotFound
	}
	return nil
}
