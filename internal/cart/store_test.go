package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/storage"
	"github.com/estorelabs/storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()
	backend := storage.NewMemory()
	store, err := NewStore(backend, testLogger(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store, backend
}

var phone = catalog.Product{ID: 1, Name: "Phone", Price: 10, Category: "Electronics"}
var kettle = catalog.Product{ID: 2, Name: "Kettle", Price: 39.5, Category: "Appliances"}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	store.AddItem(ctx, phone)
	store.AddItem(ctx, phone)

	state := store.Snapshot()
	if len(state.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(state.Items))
	}
	if state.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", state.Items[0].Quantity)
	}
	if !state.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected total 20, got %s", state.Total)
	}
}

func TestTotalAlwaysEqualsWeightedSum(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	store.AddItem(ctx, phone)
	store.AddItem(ctx, kettle)
	store.AddItem(ctx, kettle)
	store.SetQuantity(ctx, 1, 5)
	store.RemoveItem(ctx, 2)
	store.AddItem(ctx, kettle)

	state := store.Snapshot()
	want := decimal.Zero
	for _, item := range state.Items {
		want = want.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !state.Total.Equal(want) {
		t.Fatalf("total %s diverged from weighted sum %s", state.Total, want)
	}
}

func TestAddItemWithoutIdentityOrPriceIsRejected(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	store.AddItem(ctx, catalog.Product{Name: "ghost", Price: 10})
	store.AddItem(ctx, catalog.Product{ID: 3, Name: "negative", Price: -1})

	state := store.Snapshot()
	if len(state.Items) != 0 || !state.Total.IsZero() {
		t.Fatalf("rejected adds must not change state: %+v", state)
	}
	if backend.Len() != 0 {
		t.Fatalf("rejected adds must not persist anything")
	}
}

func TestRemoveAbsentIDLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	store.AddItem(ctx, phone)

	before := store.Snapshot()
	store.RemoveItem(ctx, 42)
	after := store.Snapshot()

	if !reflect.DeepEqual(before.Items, after.Items) || !before.Total.Equal(after.Total) {
		t.Fatalf("remove of an absent id changed state: %+v -> %+v", before, after)
	}
}

func TestSetQuantityZeroOrNegativeDropsItem(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		ctx := context.Background()
		store, _ := newTestStore(t)
		store.AddItem(ctx, phone)

		store.SetQuantity(ctx, 1, quantity)

		if state := store.Snapshot(); len(state.Items) != 0 {
			t.Fatalf("quantity %d should drop the item, got %+v", quantity, state.Items)
		}
	}
}

func TestSetQuantityUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	store.AddItem(ctx, phone)

	store.SetQuantity(ctx, 42, 3)

	state := store.Snapshot()
	if len(state.Items) != 1 || state.Items[0].Quantity != 1 {
		t.Fatalf("set quantity for an unknown id changed state: %+v", state)
	}
}

func TestMutationsWriteThrough(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)

	store.AddItem(ctx, phone)
	store.SetQuantity(ctx, 1, 3)

	raw, err := backend.Get(ctx, storage.KeyCartItems)
	if err != nil {
		t.Fatalf("expected persisted record: %v", err)
	}
	var persisted []Item
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		t.Fatalf("persisted record is not valid JSON: %v", err)
	}
	if len(persisted) != 1 || persisted[0].Quantity != 3 {
		t.Fatalf("persisted record out of sync: %+v", persisted)
	}
}

func TestClearErasesPersistedRecord(t *testing.T) {
	ctx := context.Background()
	store, backend := newTestStore(t)
	store.AddItem(ctx, phone)

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if state := store.Snapshot(); len(state.Items) != 0 || !state.Total.IsZero() {
		t.Fatalf("clear left state behind: %+v", state)
	}
	if _, err := backend.Get(ctx, storage.KeyCartItems); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("clear must erase the key entirely, got %v", err)
	}
}

func TestInitializeDropsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	record := `[
		{"id":1,"name":"Phone","price":10,"quantity":2},
		{"id":2,"price":"x","quantity":2},
		{"price":5,"quantity":1},
		{"id":3,"price":-4,"quantity":1},
		{"id":4,"price":8,"quantity":1.5},
		{"id":5,"price":8,"quantity":0},
		{"id":1,"name":"Phone again","price":10,"quantity":9}
	]`
	backend.Set(ctx, storage.KeyCartItems, record)

	store, err := NewStore(backend, testLogger(), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Initialize(ctx)

	state := store.Snapshot()
	if len(state.Items) != 1 || state.Items[0].ID != 1 || state.Items[0].Quantity != 2 {
		t.Fatalf("expected only the first valid entry to survive, got %+v", state.Items)
	}
	if !state.Total.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected recomputed total 20, got %s", state.Total)
	}
}

func TestInitializeNonNumericPriceYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()
	backend.Set(ctx, storage.KeyCartItems, `[{"id":1,"price":"x","quantity":2}]`)

	store, _ := NewStore(backend, testLogger(), nil)
	store.Initialize(ctx)

	if state := store.Snapshot(); len(state.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", state.Items)
	}
}

func TestInitializeCorruptOrMissingRecord(t *testing.T) {
	ctx := context.Background()

	for name, record := range map[string]*string{
		"missing":   nil,
		"corrupt":   ptr(`{"not":"an array"`),
		"non-array": ptr(`{"id":1}`),
	} {
		backend := storage.NewMemory()
		if record != nil {
			backend.Set(ctx, storage.KeyCartItems, *record)
		}
		store, _ := NewStore(backend, testLogger(), nil)
		store.Initialize(ctx)
		if state := store.Snapshot(); len(state.Items) != 0 || !state.Total.IsZero() {
			t.Fatalf("%s record should yield an empty cart, got %+v", name, state)
		}
	}
}

func TestInitializeSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemory()

	first, _ := NewStore(backend, testLogger(), nil)
	first.AddItem(ctx, phone)
	first.AddItem(ctx, kettle)

	second, _ := NewStore(backend, testLogger(), nil)
	second.Initialize(ctx)

	if got, want := second.Snapshot(), first.Snapshot(); !reflect.DeepEqual(got.Items, want.Items) {
		t.Fatalf("restart lost state: %+v vs %+v", got.Items, want.Items)
	}
}

func ptr(s string) *string { return &s }
