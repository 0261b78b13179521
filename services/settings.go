package services

import (
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

func (s *SettingService) Get() (models.Setting, error) {
	return models.LoadSetting(s.db)
}

// Update replaces the settings row, creating it on first save.
func (s *SettingService) Update(in models.Setting) (models.Setting, error) {
	if in.WorkerSignupBonus < 0 || in.BuyerSignupBonus < 0 {
		return in, validationf("signup bonuses must not be negative")
	}
	if in.MinWithdrawCoin < 1 {
		return in, validationf("min_withdraw_coin must be at least 1")
	}
	if in.CoinsPerDollar < 1 {
		return in, validationf("coins_per_dollar must be at least 1")
	}
	current, err := models.LoadSetting(s.db)
	if err != nil {
		return in, err
	}
	in.ID = current.ID
	if err := s.db.Save(&in).Error; err != nil {
		return in, err
	}
	logger.Info("settings updated", "maintenance", in.Maintenance, "closed_register", in.ClosedRegister)
	return in, nil
}
