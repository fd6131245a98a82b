package store

import (
	"context"
	"testing"

	"donorbase/internal/db"
)

func TestCreateAndGetCanonicalItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateCanonicalItem(ctx, database, "Canned Beans 400g", "BEANS-400")
	if err != nil {
		t.Fatalf("CreateCanonicalItem: %v", err)
	}
	if c.PartnerKey != "BEANS-400" {
		t.Errorf("expected partner key 'BEANS-400', got %q", c.PartnerKey)
	}
	if c.BarcodeCount != 0 {
		t.Errorf("expected barcode count 0, got %d", c.BarcodeCount)
	}

	got, err := GetCanonicalItem(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("GetCanonicalItem: %v", err)
	}
	if got.Name != "Canned Beans 400g" {
		t.Errorf("expected name 'Canned Beans 400g', got %q", got.Name)
	}
}

func TestDuplicateCanonicalPartnerKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateCanonicalItem(ctx, database, "One", "KEY"); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateCanonicalItem(ctx, database, "Two", "KEY"); err == nil {
		t.Error("expected error for duplicate partner key")
	}
}

func TestGetCanonicalItemByPartnerKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	want, _ := CreateCanonicalItem(ctx, database, "Pasta 500g", "PASTA-500")

	got, err := GetCanonicalItemByPartnerKey(ctx, database, "PASTA-500")
	if err != nil {
		t.Fatalf("GetCanonicalItemByPartnerKey: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("expected canonical item %d, got %+v", want.ID, got)
	}

	missing, err := GetCanonicalItemByPartnerKey(ctx, database, "NOPE")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("expected nil for unknown partner key")
	}
}

func TestListCanonicalItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateCanonicalItem(ctx, database, "Zebra Toy", "Z1")
	CreateCanonicalItem(ctx, database, "Apple Sauce", "A1")

	items, err := ListCanonicalItems(ctx, database)
	if err != nil {
		t.Fatalf("ListCanonicalItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Apple Sauce" {
		t.Errorf("expected alphabetical order, got %q first", items[0].Name)
	}
}

func TestUpdateCanonicalItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateCanonicalItem(ctx, database, "Old Name", "OLD")
	if err := UpdateCanonicalItem(ctx, database, c.ID, "New Name", "NEW"); err != nil {
		t.Fatalf("UpdateCanonicalItem: %v", err)
	}

	got, _ := GetCanonicalItem(ctx, database, c.ID)
	if got.Name != "New Name" || got.PartnerKey != "NEW" {
		t.Errorf("expected updated fields, got %q/%q", got.Name, got.PartnerKey)
	}
}
