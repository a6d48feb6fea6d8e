package service

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cellar-market/internal/config"
	"github.com/cellar-market/internal/models"
	"github.com/cellar-market/internal/queue"
	"github.com/cellar-market/internal/repository"

	"github.com/hibiken/asynq"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.CartEventPayload
	err    error
}

func (p *recordingPublisher) EnqueueCartEvent(payload queue.CartEventPayload, _ ...asynq.Option) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, payload)
	return p.err
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

func newTestCartService(t *testing.T, wines ...models.WineRecord) (*CartService, *recordingPublisher) {
	t.Helper()
	catalog := newTestCatalog(wines...)
	publisher := &recordingPublisher{}
	pricing := NewCartPricing(config.CartConfig{TaxRate: 0.10, ShippingFee: 10})
	svc := NewCartService(repository.NewMemoryCartStore(nil), catalog, publisher, pricing)
	return svc, publisher
}

func twoWineCatalog() []models.WineRecord {
	return []models.WineRecord{
		{Title: "A", Price: money(10)},
		{Title: "B", Price: money(20)},
	}
}

func TestCartEndToEndTotals(t *testing.T) {
	svc, _ := newTestCartService(t, twoWineCatalog()...)

	cart, err := svc.AddItem("u", "0", 2)
	if err != nil {
		t.Fatalf("add wine 0: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].WineID != 0 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart after first add: %+v", cart.Items)
	}
	cart, err = svc.AddItem("u", "1", 1)
	if err != nil {
		t.Fatalf("add wine 1: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(cart.Items))
	}

	got, err := svc.GetWithTotals("u")
	if err != nil {
		t.Fatalf("get with totals: %v", err)
	}
	s := got.Summary
	if s.ItemCount != 3 || s.Subtotal.String() != "40.00" || s.Tax.String() != "4.00" ||
		s.Shipping.String() != "10.00" || s.Total.String() != "54.00" {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestCartAddSameWineIncrements(t *testing.T) {
	svc, _ := newTestCartService(t, twoWineCatalog()...)
	if _, err := svc.AddItem("u", "1", 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := svc.AddItem("u", "1", 4)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 7 {
		t.Fatalf("expected one item with quantity 7, got %+v", cart.Items)
	}
}

func TestCartAddValidation(t *testing.T) {
	svc, publisher := newTestCartService(t, twoWineCatalog()...)

	if _, err := svc.AddItem("u", "0", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if _, err := svc.AddItem("u", "", 1); !errors.Is(err, ErrInvalidWineID) {
		t.Fatalf("expected invalid wine id, got %v", err)
	}
	if _, err := svc.AddItem(" ", "0", 1); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected invalid user id, got %v", err)
	}
	_, err := svc.AddItem("u", "9", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(publisher.actions()) != 0 {
		t.Fatalf("failed adds must not publish events")
	}
}

func TestCartUpdateToZeroRemoves(t *testing.T) {
	svc, publisher := newTestCartService(t, twoWineCatalog()...)
	_, _ = svc.AddItem("u", "0", 2)

	cart, err := svc.UpdateItem("u", "0", 5)
	if err != nil || cart.Items[0].Quantity != 5 {
		t.Fatalf("update should set quantity: %+v %v", cart, err)
	}
	for _, q := range []int{0, -3} {
		_, _ = svc.AddItem("u", "0", 1)
		cart, err = svc.UpdateItem("u", "0", q)
		if err != nil {
			t.Fatalf("update to %d: %v", q, err)
		}
		if cart.FindItem(0) != -1 {
			t.Fatalf("update to %d should remove the item", q)
		}
	}
	if _, err := svc.UpdateItem("u", "0", 1); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
	actions := publisher.actions()
	if actions[len(actions)-1] != models.CartActionRemove {
		t.Fatalf("zero update should publish a remove event, got %v", actions)
	}
}

func TestCartRemoveAndClear(t *testing.T) {
	svc, _ := newTestCartService(t, twoWineCatalog()...)
	_, _ = svc.AddItem("u", "0", 1)
	_, _ = svc.AddItem("u", "1", 1)

	cart, err := svc.RemoveItem("u", "1")
	if err != nil || len(cart.Items) != 1 {
		t.Fatalf("remove: %+v %v", cart, err)
	}
	if _, err := svc.RemoveItem("u", "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove should be not found, got %v", err)
	}

	for i := 0; i < 2; i++ {
		cart, err = svc.Clear("u")
		if err != nil || len(cart.Items) != 0 {
			t.Fatalf("clear #%d: %+v %v", i, cart, err)
		}
	}
	got, _ := svc.GetWithTotals("u")
	if got.Summary.Shipping.String() != "0.00" || got.Summary.Total.String() != "0.00" {
		t.Fatalf("empty cart should cost nothing: %+v", got.Summary)
	}
}

func TestCartItemAddressableByKey(t *testing.T) {
	svc, _ := newTestCartService(t, twoWineCatalog()...)
	cart, _ := svc.AddItem("u", "0", 1)
	key := cart.Items[0].WineKey

	cart, err := svc.AddItem("u", key, 2)
	if err != nil || len(cart.Items) != 1 || cart.Items[0].Quantity != 3 {
		t.Fatalf("adding by key should merge with the positional add: %+v %v", cart, err)
	}
	if _, err := svc.RemoveItem("u", key); err != nil {
		t.Fatalf("remove by key: %v", err)
	}
}

func TestCartTimestamps(t *testing.T) {
	svc, _ := newTestCartService(t, twoWineCatalog()...)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	first, _ := svc.GetWithTotals("u")
	clock = clock.Add(time.Hour)
	cart, _ := svc.AddItem("u", "0", 1)
	if !cart.UpdatedAt.Equal(clock) {
		t.Fatalf("mutation should refresh updated_at")
	}
	if !cart.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at must not change")
	}

	clock = clock.Add(time.Hour)
	read, _ := svc.GetWithTotals("u")
	if read.UpdatedAt.Equal(clock) {
		t.Fatalf("reads must not touch updated_at")
	}
	if !read.Items[0].AddedAt.Equal(clock.Add(-time.Hour)) {
		t.Fatalf("added_at should be the add time")
	}
}

func TestCartSnapshotDetachedFromCatalog(t *testing.T) {
	wines := twoWineCatalog()
	svc, _ := newTestCartService(t, wines...)
	_, _ = svc.AddItem("u", "0", 1)
	*wines[0].Price = models.NewMoneyFromFloat(999)

	got, _ := svc.GetWithTotals("u")
	if got.Items[0].Price.String() != "10.00" {
		t.Fatalf("snapshot price changed with catalog: %s", got.Items[0].Price)
	}
}

func TestCartSummaryIgnoresMissingPrice(t *testing.T) {
	svc, _ := newTestCartService(t, models.WineRecord{Title: "unpriced"}, models.WineRecord{Title: "priced", Price: money(12.5)})
	_, _ = svc.AddItem("u", "0", 3)
	_, _ = svc.AddItem("u", "1", 2)
	got, _ := svc.GetWithTotals("u")
	s := got.Summary
	if s.ItemCount != 5 || s.Subtotal.String() != "25.00" || s.Tax.String() != "2.50" || s.Total.String() != "37.50" {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestCartPublishFailureDoesNotFailMutation(t *testing.T) {
	svc, publisher := newTestCartService(t, twoWineCatalog()...)
	publisher.err = errors.New("redis down")
	if _, err := svc.AddItem("u", "0", 1); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestCartConcurrentAddsForSameUser(t *testing.T) {
	svc, _ := newTestCartService(t, twoWineCatalog()...)
	const workers = 64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AddItem("shared", "1", 1); err != nil {
				t.Errorf("concurrent add: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.GetWithTotals("shared")
	if len(got.Items) != 1 || got.Items[0].Quantity != workers {
		t.Fatalf("expected quantity %d, got %+v", workers, got.Items)
	}
}

func TestCartPositionsFollowCatalogReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wines.json")
	writeCatalog := func(body string) {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write catalog: %v", err)
		}
	}
	wineA := `{"title":"A","winery":"Alpha","variety":"Merlot","price":10}`
	wineB := `{"title":"B","winery":"Beta","variety":"Syrah","price":20}`
	writeCatalog("[" + wineA + "," + wineB + "]")

	catalog := NewCatalogService(repository.NewJSONWineRepository(path))
	pricing := NewCartPricing(config.CartConfig{TaxRate: 0.10, ShippingFee: 10})
	svc := NewCartService(repository.NewMemoryCartStore(nil), catalog, nil, pricing)

	if _, err := svc.AddItem("u", "0", 1); err != nil {
		t.Fatalf("add A: %v", err)
	}
	writeCatalog("[" + wineB + "," + wineA + "]")
	if _, err := catalog.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	cart, err := svc.AddItem("u", "0", 1)
	if err != nil {
		t.Fatalf("add B: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected two items, got %d", len(cart.Items))
	}
	positions := map[string]int{}
	for _, item := range cart.Items {
		positions[item.Title] = item.WineID
	}
	if positions["B"] != 0 || positions["A"] != 1 {
		t.Fatalf("positions not refreshed after reload: %+v", positions)
	}

	cart, err = svc.UpdateItem("u", "0", 5)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	for _, item := range cart.Items {
		want := 1
		if item.Title == "B" {
			want = 5
		}
		if item.Quantity != want {
			t.Fatalf("update hit the wrong item: %s qty=%d", item.Title, item.Quantity)
		}
	}

	cart, err = svc.RemoveItem("u", "1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Title != "B" {
		t.Fatalf("remove should drop A: %+v", cart.Items)
	}
}

func TestCartSummaryTaxRoundsToCent(t *testing.T) {
	svc, _ := newTestCartService(t, models.WineRecord{Title: "Odd", Price: money(10.05)})
	cart, err := svc.AddItem("u", "0", 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	summary := svc.Summarize(cart)
	if summary.Tax.String() != "1.01" {
		t.Fatalf("tax should round half away from zero, got %s", summary.Tax.String())
	}
	if summary.Total.String() != "21.06" {
		t.Fatalf("unexpected total: %s", summary.Total.String())
	}
}
