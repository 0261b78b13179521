package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/einadid/microtask-server/logger"
	"github.com/einadid/microtask-server/models"
)

// Package is a fixed coin bundle sold for Price dollars.
type Package struct {
	ID    string          `json:"id"`
	Coins int64           `json:"coins"`
	Price decimal.Decimal `json:"price"`
}

var packages = []Package{
	{ID: "starter", Coins: 10, Price: decimal.NewFromInt(1)},
	{ID: "basic", Coins: 150, Price: decimal.NewFromInt(10)},
	{ID: "standard", Coins: 500, Price: decimal.NewFromInt(20)},
	{ID: "premium", Coins: 1000, Price: decimal.NewFromInt(35)},
}

func Packages() []Package {
	out := make([]Package, len(packages))
	copy(out, packages)
	return out
}

// FindPackage looks a package up by id or by its coin count.
func FindPackage(key string) (Package, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range packages {
		if p.ID == key || strconv.FormatInt(p.Coins, 10) == key {
			return p, true
		}
	}
	return Package{}, false
}

// Intent is the gateway's view of a payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
	Metadata     map[string]string
}

const IntentSucceeded = "succeeded"

// PaymentGateway creates and reads card payment intents. Amounts are in cents.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}

type PaymentService struct {
	db      *gorm.DB
	gateway PaymentGateway
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway) *PaymentService {
	return &PaymentService{db: db, gateway: gateway}
}

// CreateIntent asks the gateway to charge the package price to buyer.
func (s *PaymentService) CreateIntent(ctx context.Context, buyer models.User, packageID string) (*Intent, Package, error) {
	pkg, ok := FindPackage(packageID)
	if !ok {
		return nil, Package{}, validationf("unknown package %q", packageID)
	}
	if s.gateway == nil {
		return nil, pkg, external("create payment intent", errGatewayNotConfigured)
	}
	intent, err := s.gateway.CreateIntent(ctx, cents(pkg.Price), "usd", map[string]string{
		"email":   buyer.Email,
		"coins":   strconv.FormatInt(pkg.Coins, 10),
		"package": pkg.ID,
	})
	if err != nil {
		return nil, pkg, external("create payment intent", err)
	}
	return intent, pkg, nil
}

// Confirm verifies a succeeded intent with the gateway, records the payment
// and credits the coins. Each intent is applied at most once.
func (s *PaymentService) Confirm(ctx context.Context, buyer models.User, transactionID string) (models.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return models.Payment{}, validationf("transaction_id is required")
	}
	if s.gateway == nil {
		return models.Payment{}, external("read payment intent", errGatewayNotConfigured)
	}

	var count int64
	if err := s.db.Model(&models.Payment{}).Where("transaction_id = ?", transactionID).Count(&count).Error; err != nil {
		return models.Payment{}, err
	}
	if count > 0 {
		return models.Payment{}, ErrPaymentAlreadyApplied
	}

	intent, err := s.gateway.GetIntent(ctx, transactionID)
	if err != nil {
		return models.Payment{}, external("read payment intent", err)
	}
	if intent.Status != IntentSucceeded {
		return models.Payment{}, businessf("payment has not succeeded (status %s)", intent.Status)
	}
	if !strings.EqualFold(intent.Metadata["email"], buyer.Email) {
		return models.Payment{}, forbiddenf("payment belongs to another account")
	}
	pkg, ok := FindPackage(intent.Metadata["coins"])
	if !ok || cents(pkg.Price) != intent.Amount {
		return models.Payment{}, businessf("payment amount does not match a coin package")
	}

	payment := models.Payment{
		TransactionID:  intent.ID,
		BuyerID:        buyer.ID,
		BuyerEmail:     buyer.Email,
		BuyerName:      buyer.Name,
		Amount:         pkg.Price,
		CoinsPurchased: pkg.Coins,
	}
	err = inLedger(s.db, "confirm_payment", func(l *ledger) error {
		if err := l.tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPaymentAlreadyApplied
			}
			return err
		}
		return l.credit(buyer, pkg.Coins, models.TxCoinPurchase, "Purchased "+pkg.ID+" package")
	})
	if err != nil {
		return models.Payment{}, err
	}
	logger.Info("payment recorded", "transaction_id", payment.TransactionID, "buyer", buyer.Email, "coins", pkg.Coins)
	return payment, nil
}

func (s *PaymentService) ByBuyer(email string) ([]models.Payment, error) {
	var rows []models.Payment
	err := s.db.Where("buyer_email = ?", normalizeEmail(email)).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (s *PaymentService) All() ([]models.Payment, error) {
	var rows []models.Payment
	err := s.db.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func cents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
