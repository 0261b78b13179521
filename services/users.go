package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Name     string
	Email    string
	PhotoURL string
	Role     string
}

// Register creates the user with the signup bonus for its role. A second
// registration with the same email returns the stored user unchanged and
// created=false.
func (s *UserService) Register(in RegisterInput) (user models.User, created bool, err error) {
	email := normalizeEmail(in.Email)
	if email == "" || strings.TrimSpace(in.Name) == "" {
		return user, false, validationf("name and email are required")
	}
	if in.Role != models.RoleWorker && in.Role != models.RoleBuyer {
		return user, false, validationf("role must be worker or buyer")
	}

	existing, err := findUserByEmail(s.db, email)
	if err == nil {
		return existing, false, nil
	}
	if KindOf(err) != KindNotFound {
		return user, false, err
	}

	setting, err := models.LoadSetting(s.db)
	if err != nil {
		return user, false, err
	}
	if setting.Maintenance {
		return user, false, ErrMaintenance
	}
	if setting.ClosedRegister {
		return user, false, ErrRegistrationClosed
	}

	bonus := setting.SignupBonus(in.Role)
	err = inLedger(s.db, "register", func(l *ledger) error {
		user = models.User{
			Name:     strings.TrimSpace(in.Name),
			Email:    email,
			PhotoURL: in.PhotoURL,
			Role:     in.Role,
		}
		if err := l.tx.Create(&user).Error; err != nil {
			return err
		}
		if err := l.credit(user, bonus, models.TxSignupBonus, "Signup bonus"); err != nil {
			return err
		}
		user.Coin = bonus
		return nil
	})
	if err != nil {
		return models.User{}, false, err
	}
	logger.Info("user registered", "id", user.ID, "role", user.Role, "bonus", bonus)
	return user, true, nil
}

func (s *UserService) GetByEmail(email string) (models.User, error) {
	return findUserByEmail(s.db, normalizeEmail(email))
}

func (s *UserService) GetByID(id uint) (models.User, error) {
	return findUserByID(s.db, id)
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// TopWorkers returns the workers with the largest balances.
func (s *UserService) TopWorkers(limit int) ([]models.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 6
	}
	var users []models.User
	err := s.db.Where("role = ?", models.RoleWorker).
		Order("coin DESC").Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (s *UserService) UpdateRole(id uint, role string) (models.User, error) {
	if !models.ValidRole(role) {
		return models.User{}, validationf("invalid role %q", role)
	}
	user, err := findUserByID(s.db, id)
	if err != nil {
		return user, err
	}
	if err := s.db.Model(&user).Update("role", role).Error; err != nil {
		return user, err
	}
	user.Role = role
	logger.Info("user role changed", "id", id, "role", role)
	return user, nil
}

// MakeAdmin promotes the user with email to admin.
func (s *UserService) MakeAdmin(email string) (models.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		return user, err
	}
	return s.UpdateRole(user.ID, models.RoleAdmin)
}

// Delete removes a user. An admin can not delete their own account.
func (s *UserService) Delete(actorID, id uint) error {
	if actorID == id {
		return forbiddenf("you can not delete your own account")
	}
	res := s.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user")
	}
	logger.Info("user deleted", "id", id, "by", actorID)
	return nil
}

// AdjustCoin applies an admin balance correction. Negative deltas are
// guarded like any other debit.
func (s *UserService) AdjustCoin(id uint, delta int64, reason string) (models.User, error) {
	if delta == 0 {
		return models.User{}, validationf("delta must not be zero")
	}
	user, err := findUserByID(s.db, id)
	if err != nil {
		return user, err
	}
	err = inLedger(s.db, "admin_adjust", func(l *ledger) error {
		if delta > 0 {
			return l.credit(user, delta, models.TxAdminAdjust, reason)
		}
		return l.debit(user, -delta, models.TxAdminAdjust, reason)
	})
	if err != nil {
		return user, err
	}
	return findUserByID(s.db, id)
}

// Transactions lists the coin journal of a user, newest first.
func (s *UserService) Transactions(email string, limit int) ([]models.CoinTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.CoinTransaction
	err := s.db.Where("email = ?", normalizeEmail(email)).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
