package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cellar-market/internal/models"
)

func TestMemoryCartStoreGetCreatesEmptyCart(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryCartStore(func() time.Time { return fixed })

	cart := store.Get("u1")
	if cart.UserID != "u1" || len(cart.Items) != 0 {
		t.Fatalf("unexpected cart: %+v", cart)
	}
	if !cart.CreatedAt.Equal(fixed) || !cart.UpdatedAt.Equal(fixed) {
		t.Fatalf("timestamps not initialized")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one cart, got %d", store.Len())
	}
}

func TestMemoryCartStoreUpdateDiscardsOnError(t *testing.T) {
	store := NewMemoryCartStore(nil)
	boom := errors.New("boom")

	_, err := store.Update("u1", func(cart *models.Cart) error {
		cart.Items = append(cart.Items, models.CartItem{WineID: 1, Quantity: 1})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got := store.Get("u1"); len(got.Items) != 0 {
		t.Fatalf("failed update leaked items: %+v", got.Items)
	}
}

func TestMemoryCartStoreReturnsCopies(t *testing.T) {
	store := NewMemoryCartStore(nil)
	cart, _ := store.Update("u1", func(cart *models.Cart) error {
		cart.Items = append(cart.Items, models.CartItem{WineID: 1, Quantity: 1})
		return nil
	})
	cart.Items[0].Quantity = 50

	if got := store.Get("u1"); got.Items[0].Quantity != 1 {
		t.Fatalf("caller mutation reached the store")
	}
}

func TestMemoryCartStoreSerializesPerUser(t *testing.T) {
	store := NewMemoryCartStore(nil)
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update("shared", func(cart *models.Cart) error {
				if idx := cart.FindItem(7); idx >= 0 {
					cart.Items[idx].Quantity++
					return nil
				}
				cart.Items = append(cart.Items, models.CartItem{WineID: 7, Quantity: 1})
				return nil
			})
		}()
	}
	wg.Wait()

	got := store.Get("shared")
	if len(got.Items) != 1 || got.Items[0].Quantity != workers {
		t.Fatalf("lost updates: %+v", got.Items)
	}
}
