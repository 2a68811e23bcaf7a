package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lokapasar/internal/domain/entity"
	"lokapasar/internal/domain/repository"
	"lokapasar/pkg/errors"
)

type firestorePayoutRepository struct {
	client *firestore.Client
}

func NewFirestorePayoutRepository(client *firestore.Client) repository.PayoutRepository {
	return &firestorePayoutRepository{
		client: client,
	}
}

func (r *firestorePayoutRepository) GetBalance(ctx context.Context, vendorID string) (*entity.VendorBalance, error) {
	doc, err := r.client.Collection("vendorBalances").Doc(vendorID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Vendor balance", err)
		}
		return nil, errors.Internal("Failed to get vendor balance", err)
	}

	var balance entity.VendorBalance
	if err := doc.DataTo(&balance); err != nil {
		return nil, errors.Internal("Failed to parse vendor balance data", err)
	}

	return &balance, nil
}

// AdjustBalance runs in a Firestore transaction so concurrent order
// completions and payout requests cannot lose an update.
func (r *firestorePayoutRepository) AdjustBalance(ctx context.Context, vendorID, currency string, deltaCents int64) (*entity.VendorBalance, error) {
	ref := r.client.Collection("vendorBalances").Doc(vendorID)
	var result entity.VendorBalance

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)

		balance := entity.VendorBalance{
			VendorID: vendorID,
			Currency: currency,
		}
		if err == nil {
			if err := doc.DataTo(&balance); err != nil {
				return err
			}
		} else if status.Code(err) != codes.NotFound {
			return err
		}

		balance.BalanceCents += deltaCents
		if balance.BalanceCents < 0 {
			return errors.BadRequest("Payout exceeds available balance", nil)
		}
		balance.UpdatedAt = time.Now()

		result = balance
		return tx.Set(ref, balance)
	})
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			return nil, appErr
		}
		return nil, errors.Internal("Failed to adjust vendor balance", err)
	}

	return &result, nil
}

func (r *firestorePayoutRepository) CreatePayout(ctx context.Context, payout *entity.Payout) error {
	if payout.ID == "" {
		payout.ID = uuid.New().String()
	}

	now := time.Now()
	payout.CreatedAt = now
	payout.UpdatedAt = now

	_, err := r.client.Collection("payouts").Doc(payout.ID).Set(ctx, payout)
	if err != nil {
		return errors.Internal("Failed to create payout", err)
	}

	return nil
}

func (r *firestorePayoutRepository) GetPayoutByID(ctx context.Context, id string) (*entity.Payout, error) {
	doc, err := r.client.Collection("payouts").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Payout", err)
		}
		return nil, errors.Internal("Failed to get payout", err)
	}

	var payout entity.Payout
	if err := doc.DataTo(&payout); err != nil {
		return nil, errors.Internal("Failed to parse payout data", err)
	}

	return &payout, nil
}

func (r *firestorePayoutRepository) ListPayoutsByVendor(ctx context.Context, vendorID string, limit, offset int) ([]*entity.Payout, int64, error) {
	query := r.client.Collection("payouts").
		Where("vendorId", "==", vendorID).
		OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Select().Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count payouts", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var payouts []*entity.Payout

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate payouts", err)
		}

		var payout entity.Payout
		if err := doc.DataTo(&payout); err != nil {
			return nil, 0, errors.Internal("Failed to parse payout data", err)
		}

		payouts = append(payouts, &payout)
	}

	return payouts, total, nil
}

func (r *firestorePayoutRepository) UpdatePayout(ctx context.Context, payout *entity.Payout) error {
	payout.UpdatedAt = time.Now()

	_, err := r.client.Collection("payouts").Doc(payout.ID).Set(ctx, payout)
	if err != nil {
		return errors.Internal("Failed to update payout", err)
	}

	return nil
}
