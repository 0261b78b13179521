package models

import (
	"errors"

	"gorm.io/gorm"
)

type Setting struct {
	ID                uint  `gorm:"primaryKey" json:"id"`
	WorkerSignupBonus int64 `gorm:"not null;default:10" json:"worker_signup_bonus"`
	BuyerSignupBonus  int64 `gorm:"not null;default:50" json:"buyer_signup_bonus"`
	MinWithdrawCoin   int64 `gorm:"not null;default:200" json:"min_withdraw_coin"`
	CoinsPerDollar    int64 `gorm:"not null;default:20" json:"coins_per_dollar"`
	Maintenance       bool  `gorm:"not null;default:false" json:"maintenance"`
	ClosedRegister    bool  `gorm:"not null;default:false" json:"closed_register"`
}

func (Setting) TableName() string {
	return "settings"
}

// DefaultSetting is used when the settings row has not been created yet.
func DefaultSetting() Setting {
	return Setting{
		WorkerSignupBonus: 10,
		BuyerSignupBonus:  50,
		MinWithdrawCoin:   200,
		CoinsPerDollar:    20,
	}
}

// LoadSetting returns the single settings row, or the defaults if it is missing.
func LoadSetting(db *gorm.DB) (Setting, error) {
	var s Setting
	err := db.Order("id ASC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSetting(), nil
	}
	if err != nil {
		return Setting{}, err
	}
	return s, nil
}

// SignupBonus returns the registration bonus for role.
func (s Setting) SignupBonus(role string) int64 {
	switch role {
	case RoleBuyer:
		return s.BuyerSignupBonus
	case RoleWorker:
		return s.WorkerSignupBonus
	}
	return 0
}
