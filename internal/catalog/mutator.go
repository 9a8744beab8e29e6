package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Skotchmaster/stock_dashboard/internal/events"
	"github.com/Skotchmaster/stock_dashboard/internal/logging"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

const (
	MsgFetchFailed  = "Failed to fetch products"
	MsgCreateFailed = "Failed to create product"
	MsgUpdateFailed = "Failed to update product"
	MsgDeleteFailed = "Failed to delete product"

	MsgCreated = "Product created successfully"
	MsgUpdated = "Product updated successfully"
	MsgDeleted = "Product deleted successfully"
)

var (
	ErrNotConfirmed   = errors.New("delete not confirmed")
	ErrMutationFailed = errors.New("product store request failed")
)

// ProductStore is the external product storage.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Insert(ctx context.Context, in ProductInput) (uint, error)
	Update(ctx context.Context, id uint, in ProductInput) error
	Delete(ctx context.Context, id uint) error
}

// Notifier is the advisory message channel shown to a person.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type Mutator struct {
	Store     ProductStore
	Validator *validation.Validator
	Events    events.Publisher
}

func NewMutator(store ProductStore, v *validation.Validator, pub events.Publisher) *Mutator {
	if v == nil {
		v = validation.New()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Mutator{Store: store, Validator: v, Events: pub}
}

// Fetch lists all products ordered by id. On failure the caller gets an empty
// collection and n receives MsgFetchFailed.
func (m *Mutator) Fetch(ctx context.Context, n Notifier) []models.Product {
	l := logging.FromContext(ctx).With("svc", "catalog.fetch")
	items, err := m.Store.List(ctx)
	if err != nil {
		l.Error("fetch_products_failed", "error", err)
		n.Error(MsgFetchFailed)
		return []models.Product{}
	}
	if items == nil {
		items = []models.Product{}
	}
	return items
}

func (m *Mutator) Create(ctx context.Context, n Notifier, in ProductInput) error {
	l := logging.FromContext(ctx).With("svc", "catalog.create")
	if err := m.Validator.Validate(in); err != nil {
		l.Warn("create_product_invalid", "error", err)
		return err
	}

	id, err := m.Store.Insert(ctx, in)
	if err != nil {
		l.Error("create_product_failed", "error", err)
		n.Error(MsgCreateFailed)
		return fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}

	n.Success(MsgCreated)
	m.publish(ctx, id, events.New(events.ProductCreated, map[string]any{"product_id": id, "name": in.Name}))
	return nil
}

func (m *Mutator) Update(ctx context.Context, n Notifier, id uint, in ProductInput) error {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "product_id", id)
	if err := m.Validator.Validate(in); err != nil {
		l.Warn("update_product_invalid", "error", err)
		return err
	}

	if err := m.Store.Update(ctx, id, in); err != nil {
		l.Error("update_product_failed", "error", err)
		n.Error(MsgUpdateFailed)
		return fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}

	n.Success(MsgUpdated)
	m.publish(ctx, id, events.New(events.ProductUpdated, map[string]any{"product_id": id, "name": in.Name}))
	return nil
}

// Delete removes a product. Nothing is sent to the store unless confirmed.
func (m *Mutator) Delete(ctx context.Context, n Notifier, id uint, confirmed bool) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "product_id", id)
	if !confirmed {
		l.Info("delete_product_not_confirmed")
		return ErrNotConfirmed
	}

	if err := m.Store.Delete(ctx, id); err != nil {
		l.Error("delete_product_failed", "error", err)
		n.Error(MsgDeleteFailed)
		return fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}

	n.Success(MsgDeleted)
	m.publish(ctx, id, events.New(events.ProductDeleted, map[string]any{"product_id": id}))
	return nil
}

func (m *Mutator) publish(ctx context.Context, id uint, ev events.Event) {
	key := strconv.FormatUint(uint64(id), 10)
	if err := m.Events.PublishEvent(ctx, events.TopicProducts, key, ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_error", "type", ev.Type, "error", err)
	}
}
