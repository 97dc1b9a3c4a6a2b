package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

func createTestCustomer(t *testing.T, d *DB, email string) *models.User {
	t.Helper()
	u := &models.User{Name: "Customer", Email: email, Role: models.RoleCustomer}
	if err := d.CreateUser(context.Background(), u, "secret-password"); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return u
}

func createTestProduct(t *testing.T, d *DB, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Description: name + " description", Price: price}
	if err := d.CreateProduct(context.Background(), p); err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}
	return p
}

func TestAddCartItem_MergesQuantity(t *testing.T) {
	d, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u := createTestCustomer(t, d, "cart@example.com")
	p := createTestProduct(t, d, "Flash Drive", 12.5)

	first := &models.CartItem{UserID: u.ID, ProductID: p.ID, Quantity: 2}
	created, err := d.AddCartItem(ctx, first)
	if err != nil {
		t.Fatalf("AddCartItem() error = %v", err)
	}
	if !created {
		t.Error("AddCartItem() created = false on first add")
	}

	second := &models.CartItem{UserID: u.ID, ProductID: p.ID, Quantity: 3}
	created, err = d.AddCartItem(ctx, second)
	if err != nil {
		t.Fatalf("AddCartItem() second error = %v", err)
	}
	if created {
		t.Error("AddCartItem() created = true when merging")
	}
	if second.ID != first.ID {
		t.Errorf("AddCartItem() merged into %v, want %v", second.ID, first.ID)
	}
	if second.Quantity != 5 {
		t.Errorf("AddCartItem() quantity = %d, want 5", second.Quantity)
	}
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	d, cleanup := setupTestDB(t)
	defer cleanup()

	u := createTestCustomer(t, d, "noproduct@example.com")
	_, err := d.AddCartItem(context.Background(), &models.CartItem{UserID: u.ID, ProductID: uuid.New(), Quantity: 1})
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("AddCartItem() error = %v, want %v", err, ErrProductNotFound)
	}
}

func TestCheckout(t *testing.T) {
	d, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u := createTestCustomer(t, d, "checkout@example.com")
	drive := createTestProduct(t, d, "Flash Drive", 10)
	cable := createTestProduct(t, d, "Cable", 2.5)

	for _, item := range []models.CartItem{
		{UserID: u.ID, ProductID: drive.ID, Quantity: 2},
		{UserID: u.ID, ProductID: cable.ID, Quantity: 4},
	} {
		if _, err := d.AddCartItem(ctx, &item); err != nil {
			t.Fatalf("AddCartItem() error = %v", err)
		}
	}

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	result, err := d.Checkout(ctx, u.ID, "Jane Doe", at)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if result.ItemCount != 2 {
		t.Errorf("Checkout() item count = %d, want 2", result.ItemCount)
	}
	if result.SalesRecord.Price != 30 {
		t.Errorf("Checkout() price = %v, want 30", result.SalesRecord.Price)
	}
	wantItems := []string{"Flash Drive(Quantity:2)", "Cable(Quantity:4)"}
	for i, want := range wantItems {
		if result.SalesRecord.Items[i] != want {
			t.Errorf("Checkout() items[%d] = %q, want %q", i, result.SalesRecord.Items[i], want)
		}
	}
	if result.SalesRecord.Date != "2024-05-01T12:00:00Z" {
		t.Errorf("Checkout() date = %q", result.SalesRecord.Date)
	}

	items, err := d.ListCartItems(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListCartItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("cart has %d items after checkout, want 0", len(items))
	}

	if _, err := d.Checkout(ctx, u.ID, "Jane Doe", at); !errors.Is(err, ErrCartEmpty) {
		t.Errorf("Checkout() empty cart error = %v, want %v", err, ErrCartEmpty)
	}
}

func TestSyncCart_ReplacesCart(t *testing.T) {
	d, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	u := createTestCustomer(t, d, "sync@example.com")
	drive := createTestProduct(t, d, "Flash Drive", 10)
	cable := createTestProduct(t, d, "Cable", 2.5)

	if _, err := d.AddCartItem(ctx, &models.CartItem{UserID: u.ID, ProductID: drive.ID, Quantity: 1}); err != nil {
		t.Fatalf("AddCartItem() error = %v", err)
	}

	if err := d.SyncCart(ctx, u.ID, []models.CartItem{
		{ProductID: cable.ID, Quantity: 1},
		{ProductID: cable.ID, Quantity: 2},
	}); err != nil {
		t.Fatalf("SyncCart() error = %v", err)
	}

	items, err := d.ListCartItems(ctx, u.ID)
	if err != nil {
		t.Fatalf("ListCartItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("ListCartItems() returned %d items, want 1", len(items))
	}
	if items[0].ProductID != cable.ID || items[0].Quantity != 3 {
		t.Errorf("ListCartItems() = %+v, want cable with quantity 3", items[0])
	}
}
