package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobportal_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Notification event kinds.
const (
	NotificationTypeNewApplication    = "new_application"
	NotificationTypeApplicationStatus = "application_status"
	NotificationTypePaymentCompleted  = "payment_completed"
	NotificationTypeJobClosed         = "job_closed"
)

type NotificationCriteria struct {
	UnreadOnly bool   `form:"unread_only"`
	Type       string `form:"type"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type NotificationRepository interface {
	CreateNotification(db *gorm.DB, notification *models.Notification) error
	FindNotificationByID(db *gorm.DB, id string) (*models.Notification, error)
	FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error)
	MarkAsRead(db *gorm.DB, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) error
	DeleteNotification(db *gorm.DB, id string) error
	DeleteUserNotifications(db *gorm.DB, userID string) error
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)

	// Factory methods for common notification types
	CreateNewApplicationNotification(db *gorm.DB, instituteID, jobID, jobTitle, candidateName string) error
	CreateApplicationStatusNotification(db *gorm.DB, candidateID, jobTitle string, status models.ApplicationStatus) error
	CreatePaymentCompletedNotification(db *gorm.DB, userID, planName string) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) CreateNotification(db *gorm.DB, notification *models.Notification) error {
	if notification.UserID == "" || notification.Type == "" || notification.Title == "" {
		return errors.New("invalid notification data")
	}
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotificationByID(db *gorm.DB, id string) (*models.Notification, error) {
	var notification models.Notification
	err := db.First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindUserNotifications(db *gorm.DB, userID string, criteria NotificationCriteria) ([]models.Notification, int64, error) {
	query := db.Where("user_id = ?", userID)

	if criteria.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}
	if criteria.Type != "" {
		query = query.Where("type = ?", criteria.Type)
	}

	var total int64
	if err := query.Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, notificationID string) error {
	result := db.Model(&models.Notification{}).Where("id = ?", notificationID).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string) error {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error
}

func (r *NotificationRepositoryImpl) DeleteNotification(db *gorm.DB, id string) error {
	result := db.Delete(&models.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteUserNotifications(db *gorm.DB, userID string) error {
	return db.Delete(&models.Notification{}, "user_id = ?", userID).Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// Factory methods

func (r *NotificationRepositoryImpl) CreateNewApplicationNotification(db *gorm.DB, instituteID, jobID, jobTitle, candidateName string) error {
	data, _ := json.Marshal(map[string]string{"job_id": jobID, "job_title": jobTitle})
	return r.CreateNotification(db, &models.Notification{
		UserID:  instituteID,
		Type:    NotificationTypeNewApplication,
		Title:   "New application received",
		Message: fmt.Sprintf("%s applied to %s", candidateName, jobTitle),
		Data:    datatypes.JSON(data),
	})
}

func (r *NotificationRepositoryImpl) CreateApplicationStatusNotification(db *gorm.DB, candidateID, jobTitle string, status models.ApplicationStatus) error {
	data, _ := json.Marshal(map[string]string{"job_title": jobTitle, "status": string(status)})
	return r.CreateNotification(db, &models.Notification{
		UserID:  candidateID,
		Type:    NotificationTypeApplicationStatus,
		Title:   "Application status updated",
		Message: fmt.Sprintf("Your application for %s is now %s", jobTitle, status),
		Data:    datatypes.JSON(data),
	})
}

func (r *NotificationRepositoryImpl) CreatePaymentCompletedNotification(db *gorm.DB, userID, planName string) error {
	data, _ := json.Marshal(map[string]string{"plan": planName})
	return r.CreateNotification(db, &models.Notification{
		UserID:  userID,
		Type:    NotificationTypePaymentCompleted,
		Title:   "Payment successful",
		Message: fmt.Sprintf("Your %s subscription is now active", planName),
		Data:    datatypes.JSON(data),
	})
}
