package repositories

import (
	"errors"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("payment order not found")

type PaymentRepository interface {
	Create(db *gorm.DB, order *models.PaymentOrder) error
	FindByGatewayOrderID(db *gorm.DB, gatewayOrderID string) (*models.PaymentOrder, error)
	MarkCompleted(db *gorm.DB, orderID, gatewayPaymentID, signature string) error
	MarkFailed(db *gorm.DB, orderID string) error
	FindByUser(db *gorm.DB, userID string) ([]models.PaymentOrder, error)
	DeleteByUser(db *gorm.DB, userID string) error
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, order *models.PaymentOrder) error {
	return db.Create(order).Error
}

func (r *PaymentRepositoryImpl) FindByGatewayOrderID(db *gorm.DB, gatewayOrderID string) (*models.PaymentOrder, error) {
	var order models.PaymentOrder
	err := db.First(&order, "gateway_order_id = ?", gatewayOrderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PaymentRepositoryImpl) MarkCompleted(db *gorm.DB, orderID, gatewayPaymentID, signature string) error {
	now := time.Now()
	result := db.Model(&models.PaymentOrder{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"status":             models.PaymentStatusCompleted,
			"gateway_payment_id": gatewayPaymentID,
			"signature":          signature,
			"paid_at":            now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PaymentRepositoryImpl) MarkFailed(db *gorm.DB, orderID string) error {
	return db.Model(&models.PaymentOrder{}).Where("id = ?", orderID).
		Update("status", models.PaymentStatusFailed).Error
}

func (r *PaymentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.PaymentOrder, error) {
	var orders []models.PaymentOrder
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *PaymentRepositoryImpl) DeleteByUser(db *gorm.DB, userID string) error {
	return db.Delete(&models.PaymentOrder{}, "user_id = ?", userID).Error
}
