package repository

import (
	"context"

	"github.com/zimstream/stream-ops-service/internal/model"
	"github.com/zimstream/stream-ops-service/internal/store"
)

// SubscriptionRepo persists subscription documents.
type SubscriptionRepo struct{ c *core }

func (r *SubscriptionRepo) List(ctx context.Context) ([]model.Subscription, error) {
	q := store.Query{Order: []store.Order{store.OrderDesc(store.FieldCreatedAt)}}
	return listDocs(ctx, r.c, store.CollectionSubscriptions, q, subscriptionDoc.toModel)
}

func (r *SubscriptionRepo) Create(ctx context.Context, s model.Subscription) (model.Subscription, error) {
	payload := map[string]any{
		"userId":   s.UserID,
		"planType": s.PlanType,
		"status":   s.Status,
		"price":    s.Price,
	}
	if len(s.Channels) > 0 {
		payload["channels"] = s.Channels
	}
	return createDoc(ctx, r.c, store.CollectionSubscriptions, s.ID, payload, subscriptionDoc.toModel)
}

func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, id, status string) (model.Subscription, error) {
	return updateDoc(ctx, r.c, store.CollectionSubscriptions, id, map[string]any{"status": status}, subscriptionDoc.toModel)
}

// UserRepo reads dashboard user documents.
type UserRepo struct{ c *core }

func (r *UserRepo) List(ctx context.Context) ([]model.AppUser, error) {
	return listDocs(ctx, r.c, store.CollectionUsers, store.Query{}, appUserDoc.toModel)
}

// TransactionRepo persists billing transactions.
type TransactionRepo struct{ c *core }

func (r *TransactionRepo) List(ctx context.Context) ([]model.Transaction, error) {
	q := store.Query{Order: []store.Order{store.OrderDesc(store.FieldCreatedAt)}}
	return listDocs(ctx, r.c, store.CollectionTransactions, q, transactionDoc.toModel)
}

func (r *TransactionRepo) Create(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	payload := map[string]any{
		"userId": t.UserID,
		"amount": t.Amount,
		"type":   t.Type,
		"status": t.Status,
	}
	if t.PhoneNumber != "" {
		payload["phoneNumber"] = t.PhoneNumber
	}
	if t.Reference != "" {
		payload["reference"] = t.Reference
	}
	return createDoc(ctx, r.c, store.CollectionTransactions, t.ID, payload, transactionDoc.toModel)
}

func (r *TransactionRepo) UpdateStatus(ctx context.Context, id, status string) (model.Transaction, error) {
	return updateDoc(ctx, r.c, store.CollectionTransactions, id, map[string]any{"status": status}, transactionDoc.toModel)
}
