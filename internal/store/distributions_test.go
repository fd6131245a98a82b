package store

import (
	"context"
	"testing"

	"donorbase/internal/db"
)

func TestCreateDistribution(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	item, _ := CreateItem(ctx, database, org.ID, "Tents", "", "")
	AddStock(ctx, database, org.ID, item.ID, 10)

	d, err := CreateDistribution(ctx, database, org.ID, item.ID, 4, "winter camp", nil)
	if err != nil {
		t.Fatalf("CreateDistribution: %v", err)
	}
	if d.Quantity != 4 {
		t.Errorf("expected quantity 4, got %d", d.Quantity)
	}
	if d.Notes != "winter camp" {
		t.Errorf("expected notes 'winter camp', got %q", d.Notes)
	}
	if d.ItemName != "Tents" {
		t.Errorf("expected item name 'Tents', got %q", d.ItemName)
	}

	stock, _ := ListStock(ctx, database, org.ID)
	if len(stock) != 1 || stock[0].Quantity != 6 {
		t.Fatalf("expected 6 remaining, got %+v", stock)
	}
}

func TestCreateDistributionInsufficientStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	item, _ := CreateItem(ctx, database, org.ID, "Tents", "", "")
	AddStock(ctx, database, org.ID, item.ID, 2)

	if _, err := CreateDistribution(ctx, database, org.ID, item.ID, 5, "", nil); err == nil {
		t.Error("expected error for insufficient stock")
	}

	// Nothing changed.
	stock, _ := ListStock(ctx, database, org.ID)
	if len(stock) != 1 || stock[0].Quantity != 2 {
		t.Fatalf("expected untouched stock of 2, got %+v", stock)
	}
}

func TestCreateDistributionDrainsStock(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	item, _ := CreateItem(ctx, database, org.ID, "Tents", "", "")
	AddStock(ctx, database, org.ID, item.ID, 3)

	if _, err := CreateDistribution(ctx, database, org.ID, item.ID, 3, "", nil); err != nil {
		t.Fatal(err)
	}

	stock, _ := ListStock(ctx, database, org.ID)
	if len(stock) != 0 {
		t.Errorf("expected no stock rows after draining, got %d", len(stock))
	}
}

func TestListDistributions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	other, _ := CreateOrganization(ctx, database, "Other")
	item, _ := CreateItem(ctx, database, org.ID, "Tents", "", "")
	otherItem, _ := CreateItem(ctx, database, other.ID, "Tents", "", "")
	AddStock(ctx, database, org.ID, item.ID, 10)
	AddStock(ctx, database, other.ID, otherItem.ID, 10)

	CreateDistribution(ctx, database, org.ID, item.ID, 1, "", nil)
	CreateDistribution(ctx, database, org.ID, item.ID, 2, "", nil)
	CreateDistribution(ctx, database, other.ID, otherItem.ID, 3, "", nil)

	list, err := ListDistributions(ctx, database, org.ID)
	if err != nil {
		t.Fatalf("ListDistributions: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 distributions, got %d", len(list))
	}
	if list[0].Quantity != 2 {
		t.Errorf("expected newest first, got quantity %d first", list[0].Quantity)
	}
}
