package repository

import (
	"context"

	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentUpdate is a provider result to be written onto a payment row.
type PaymentUpdate struct {
	Status            models.PaymentStatus
	ProviderReference *string
	Meta              map[string]interface{}
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Payment, error)
	FindByProviderReference(ctx context.Context, provider, reference string) (*models.Payment, error)
	Reconcile(ctx context.Context, payment *models.Payment, update PaymentUpdate) (orderPaid bool, err error)
	MarkRefunded(ctx context.Context, payment *models.Payment, meta map[string]interface{}) (orderRefunded bool, err error)
	CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error)
}

type gormPaymentRepo struct {
	db *gorm.DB
}

func NewGormPaymentRepo(db *gorm.DB) PaymentRepository {
	return &gormPaymentRepo{db: db}
}

func (r *gormPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindByIDAndUserID(ctx context.Context, id, userID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepo) FindByProviderReference(ctx context.Context, provider, reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_reference = ?", provider, reference).
		Order("created_at DESC").
		First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Reconcile writes the provider result onto the payment and, for a success, moves the
// order from created to paid in the same transaction. orderPaid reports whether this
// call performed that transition; an order that was already paid is left untouched.
func (r *gormPaymentRepo) Reconcile(ctx context.Context, payment *models.Payment, update PaymentUpdate) (bool, error) {
	meta := datatypes.JSONMap(update.Meta)
	if meta == nil {
		meta = datatypes.JSONMap{}
	}
	orderPaid := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"status": update.Status,
			"meta":   meta,
		}
		if update.ProviderReference != nil {
			fields["provider_reference"] = *update.ProviderReference
		}
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(fields).Error; err != nil {
			return err
		}

		if update.Status != models.PaymentStatusSucceeded {
			return nil
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", payment.OrderID, models.OrderStatusCreated).
			Update("status", models.OrderStatusPaid)
		if res.Error != nil {
			return res.Error
		}
		orderPaid = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	payment.Status = update.Status
	payment.Meta = meta
	if update.ProviderReference != nil {
		payment.ProviderReference = update.ProviderReference
	}
	return orderPaid, nil
}

// MarkRefunded records a refund on the payment and refunds the order unless it is
// already cancelled or refunded.
func (r *gormPaymentRepo) MarkRefunded(ctx context.Context, payment *models.Payment, meta map[string]interface{}) (bool, error) {
	orderRefunded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]interface{}{
			"status": models.PaymentStatusRefunded,
			"meta":   datatypes.JSONMap(meta),
		}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status NOT IN ?", payment.OrderID,
				[]models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusRefunded}).
			Update("status", models.OrderStatusRefunded)
		if res.Error != nil {
			return res.Error
		}
		orderRefunded = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	payment.Status = models.PaymentStatusRefunded
	payment.Meta = meta
	return orderRefunded, nil
}

func (r *gormPaymentRepo) CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
