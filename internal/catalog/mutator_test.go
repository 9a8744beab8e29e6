package catalog

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/stock_dashboard/internal/events"
	"github.com/Skotchmaster/stock_dashboard/internal/models"
	"github.com/Skotchmaster/stock_dashboard/internal/notify"
	"github.com/Skotchmaster/stock_dashboard/internal/validation"
)

type fakeStore struct {
	products []models.Product
	calls    []string
	err      error
}

func (f *fakeStore) List(context.Context) ([]models.Product, error) {
	f.calls = append(f.calls, "list")
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeStore) Insert(_ context.Context, in ProductInput) (uint, error) {
	f.calls = append(f.calls, "insert")
	if f.err != nil {
		return 0, f.err
	}
	id := uint(len(f.products) + 1)
	f.products = append(f.products, models.Product{ID: id, Name: in.Name, UnitPrice: in.UnitPrice, Quantity: in.Quantity})
	return id, nil
}

func (f *fakeStore) Update(_ context.Context, id uint, in ProductInput) error {
	f.calls = append(f.calls, "update")
	return f.err
}

func (f *fakeStore) Delete(_ context.Context, id uint) error {
	f.calls = append(f.calls, "delete")
	return f.err
}

func newMutator(store ProductStore) (*Mutator, *events.Recorder) {
	rec := &events.Recorder{}
	return NewMutator(store, validation.New(), rec), rec
}

func TestMutator_Create_InvalidInputSendsNothing(t *testing.T) {
	cases := []ProductInput{
		{Name: "", UnitPrice: 10, Quantity: 1},
		{Name: "A", UnitPrice: 10, Quantity: 1},
		{Name: "Kopi", UnitPrice: 0, Quantity: 1},
		{Name: "Kopi", UnitPrice: 10, Quantity: -1},
	}
	for _, in := range cases {
		store := &fakeStore{}
		m, rec := newMutator(store)
		var n notify.Collector

		err := m.Create(context.Background(), &n, in)
		require.Error(t, err)
		assert.ErrorIs(t, err, validation.ErrValidation)
		assert.Empty(t, store.calls, "no request for %+v", in)
		assert.Empty(t, n.Messages())
		assert.Empty(t, rec.Events())
	}
}

func TestMutator_Create_ValidationMessages(t *testing.T) {
	m, _ := newMutator(&fakeStore{})
	err := m.Create(context.Background(), &notify.Collector{}, ProductInput{Name: "A", UnitPrice: 0, Quantity: -3})

	var verr validation.Errors
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Product name must be at least 2 characters", verr["name"])
	assert.Equal(t, "Price must be greater than 0", verr["unit_price"])
	assert.Equal(t, "Quantity cannot be negative", verr["quantity"])
}

func TestMutator_Create_RejectsOutOfRangeNumbers(t *testing.T) {
	tests := []struct {
		name  string
		in    ProductInput
		field string
		want  string
	}{
		{name: "huge price", in: ProductInput{Name: "Emas", UnitPrice: 1e308, Quantity: 10}, field: "unit_price", want: "Price is too large"},
		{name: "infinite price", in: ProductInput{Name: "Emas", UnitPrice: math.Inf(1), Quantity: 10}, field: "unit_price", want: "Price must be a number"},
		{name: "nan price", in: ProductInput{Name: "Emas", UnitPrice: math.NaN(), Quantity: 10}, field: "unit_price", want: "Price must be a number"},
		{name: "huge quantity", in: ProductInput{Name: "Emas", UnitPrice: 10, Quantity: MaxQuantity + 1}, field: "quantity", want: "Quantity is too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			m, rec := newMutator(store)

			var verr validation.Errors
			require.ErrorAs(t, m.Create(context.Background(), &notify.Collector{}, tt.in), &verr)
			assert.Equal(t, tt.want, verr[tt.field])
			assert.Empty(t, store.calls)
			assert.Empty(t, rec.Events())
		})
	}

	m, _ := newMutator(&fakeStore{})
	require.NoError(t, m.Create(context.Background(), &notify.Collector{}, ProductInput{Name: "Emas", UnitPrice: MaxUnitPrice, Quantity: MaxQuantity}))
}

func TestMutator_Create_Success(t *testing.T) {
	store := &fakeStore{}
	m, rec := newMutator(store)
	var n notify.Collector

	require.NoError(t, m.Create(context.Background(), &n, ProductInput{Name: "Kopi", UnitPrice: 1000, Quantity: 0}))
	assert.Equal(t, []string{"insert"}, store.calls)
	assert.Equal(t, MsgCreated, n.Last(notify.KindSuccess))

	evs := rec.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TopicProducts, evs[0].Topic)
	assert.Equal(t, events.ProductCreated, evs[0].Event.Type)
}

func TestMutator_FailuresSurfaceFixedMessages(t *testing.T) {
	boom := errors.New("connection reset")
	valid := ProductInput{Name: "Kopi", UnitPrice: 1000, Quantity: 1}

	tests := []struct {
		name string
		run  func(m *Mutator, n Notifier) error
		want string
	}{
		{name: "create", run: func(m *Mutator, n Notifier) error { return m.Create(context.Background(), n, valid) }, want: MsgCreateFailed},
		{name: "update", run: func(m *Mutator, n Notifier) error { return m.Update(context.Background(), n, 1, valid) }, want: MsgUpdateFailed},
		{name: "delete", run: func(m *Mutator, n Notifier) error { return m.Delete(context.Background(), n, 1, true) }, want: MsgDeleteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, rec := newMutator(&fakeStore{err: boom})
			var n notify.Collector

			err := tt.run(m, &n)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMutationFailed)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.want, n.Last(notify.KindError))
			assert.Empty(t, n.Last(notify.KindSuccess))
			assert.Empty(t, rec.Events())
		})
	}
}

func TestMutator_Update_MissingIDKeepsCause(t *testing.T) {
	m, _ := newMutator(&fakeStore{err: gorm.ErrRecordNotFound})
	err := m.Update(context.Background(), &notify.Collector{}, 99, ProductInput{Name: "Kopi", UnitPrice: 1, Quantity: 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMutator_Delete_RequiresConfirmation(t *testing.T) {
	store := &fakeStore{}
	m, rec := newMutator(store)
	var n notify.Collector

	err := m.Delete(context.Background(), &n, 1, false)
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, store.calls)
	assert.Empty(t, n.Messages())

	require.NoError(t, m.Delete(context.Background(), &n, 1, true))
	assert.Equal(t, []string{"delete"}, store.calls)
	assert.Equal(t, MsgDeleted, n.Last(notify.KindSuccess))
	require.Len(t, rec.Events(), 1)
	assert.Equal(t, events.ProductDeleted, rec.Events()[0].Event.Type)
}

func TestMutator_PublishFailureDoesNotFailMutation(t *testing.T) {
	store := &fakeStore{}
	rec := &events.Recorder{Err: errors.New("broker down")}
	m := NewMutator(store, nil, rec)

	require.NoError(t, m.Update(context.Background(), &notify.Collector{}, 1, ProductInput{Name: "Kopi", UnitPrice: 1, Quantity: 1}))
}

func TestMutator_Fetch(t *testing.T) {
	store := &fakeStore{products: sampleProducts()}
	m, _ := newMutator(store)
	var n notify.Collector

	assert.Len(t, m.Fetch(context.Background(), &n), 4)
	assert.Empty(t, n.Messages())

	store.err = errors.New("timeout")
	got := m.Fetch(context.Background(), &n)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, MsgFetchFailed, n.Last(notify.KindError))
}
