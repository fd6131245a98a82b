package store

import (
	"context"
	"testing"

	"donorbase/internal/db"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Shelter")
	item, err := CreateItem(ctx, database, org.ID, "Blanket", "Wool, queen size", "BLANKET-01")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Name != "Blanket" {
		t.Errorf("expected name 'Blanket', got %q", item.Name)
	}
	if item.OrganizationID != org.ID {
		t.Errorf("expected organization %d, got %d", org.ID, item.OrganizationID)
	}
	if item.Status != "active" {
		t.Errorf("expected status 'active', got %q", item.Status)
	}
	if item.BarcodeCount != 0 {
		t.Errorf("expected barcode count 0, got %d", item.BarcodeCount)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.PartnerKey != "BLANKET-01" {
		t.Errorf("expected partner key 'BLANKET-01', got %q", got.PartnerKey)
	}
}

func TestListItemsScopedToOrganization(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgA, _ := CreateOrganization(ctx, database, "A")
	orgB, _ := CreateOrganization(ctx, database, "B")
	CreateItem(ctx, database, orgA.ID, "Coat", "", "")
	CreateItem(ctx, database, orgA.ID, "Boots", "", "")
	CreateItem(ctx, database, orgB.ID, "Coat", "", "")

	items, err := ListItems(ctx, database, orgA.ID, "")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.OrganizationID != orgA.ID {
			t.Errorf("item %q belongs to organization %d", item.Name, item.OrganizationID)
		}
	}
}

func TestListItemsByStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	active, _ := CreateItem(ctx, database, org.ID, "Active", "", "")
	retired, _ := CreateItem(ctx, database, org.ID, "Retired", "", "")
	UpdateItem(ctx, database, retired.ID, "Retired", "", "", "retired")

	items, err := ListItems(ctx, database, org.ID, "active")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Errorf("expected only the active item, got %d items", len(items))
	}
}

func TestGetItemByPartnerKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgA, _ := CreateOrganization(ctx, database, "A")
	orgB, _ := CreateOrganization(ctx, database, "B")
	want, _ := CreateItem(ctx, database, orgA.ID, "Rice 1kg", "", "RICE-1KG")
	CreateItem(ctx, database, orgB.ID, "Rice bag", "", "RICE-1KG")

	got, err := GetItemByPartnerKey(ctx, database, orgA.ID, "RICE-1KG")
	if err != nil {
		t.Fatalf("GetItemByPartnerKey: %v", err)
	}
	if got == nil || got.ID != want.ID {
		t.Fatalf("expected item %d, got %+v", want.ID, got)
	}

	missing, err := GetItemByPartnerKey(ctx, database, orgA.ID, "NO-SUCH-KEY")
	if err != nil {
		t.Fatalf("GetItemByPartnerKey: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown partner key")
	}
}

func TestDeleteItemIsSoft(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	item, _ := CreateItem(ctx, database, org.ID, "Gone", "", "")
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, _ := ListItems(ctx, database, org.ID, "")
	if len(items) != 0 {
		t.Errorf("expected 0 items after delete, got %d", len(items))
	}

	// The row survives for history.
	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got == nil {
		t.Fatal("expected deleted item to remain fetchable by ID")
	}
	if got.DeletedAt == nil {
		t.Error("expected deleted_at to be set")
	}
}

func TestItemImageRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org, _ := CreateOrganization(ctx, database, "Org")
	item, _ := CreateItem(ctx, database, org.ID, "Pictured", "", "")

	data := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	if err := SetItemImage(ctx, database, item.ID, data, "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	image, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}
	if len(image) != len(data) {
		t.Errorf("expected %d bytes, got %d", len(data), len(image))
	}
}
