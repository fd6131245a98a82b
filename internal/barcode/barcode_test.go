package barcode

import (
	"context"
	"database/sql"
	"testing"

	"donorbase/internal/db"
	"donorbase/internal/model"
)

// Test fixtures are inserted directly so the engine tests don't depend on
// the CRUD store layer.

func createOrg(t *testing.T, database *sql.DB, name string) int64 {
	t.Helper()
	res, err := database.Exec(`INSERT INTO organizations (name) VALUES (?)`, name)
	if err != nil {
		t.Fatalf("inserting organization: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func createItem(t *testing.T, database *sql.DB, orgID int64, name, partnerKey string) int64 {
	t.Helper()
	res, err := database.Exec(
		`INSERT INTO items (organization_id, name, partner_key) VALUES (?, ?, ?)`,
		orgID, name, partnerKey,
	)
	if err != nil {
		t.Fatalf("inserting item: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func createCanonical(t *testing.T, database *sql.DB, name, partnerKey string) int64 {
	t.Helper()
	res, err := database.Exec(
		`INSERT INTO canonical_items (name, partner_key) VALUES (?, ?)`,
		name, partnerKey,
	)
	if err != nil {
		t.Fatalf("inserting canonical item: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

func barcodeCount(t *testing.T, database *sql.DB, table string, id int64) int64 {
	t.Helper()
	var count int64
	err := database.QueryRow(`SELECT barcode_count FROM `+table+` WHERE id = ?`, id).Scan(&count)
	if err != nil {
		t.Fatalf("reading barcode_count: %v", err)
	}
	return count
}

func totalBarcodes(t *testing.T, database *sql.DB) int {
	t.Helper()
	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM barcodes`).Scan(&count); err != nil {
		t.Fatalf("counting barcodes: %v", err)
	}
	return count
}

func TestCreateLocalBarcode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Food Bank")
	itemID := createItem(t, database, orgID, "Diapers", "diapers")

	b, err := Create(ctx, database, Candidate{
		Value:          "037000863427",
		Quantity:       "50",
		OwnerKind:      model.OwnerKindItem,
		OwnerID:        itemID,
		OrganizationID: &orgID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if b.Value != "037000863427" {
		t.Errorf("expected value '037000863427', got %q", b.Value)
	}
	if b.Quantity != 50 {
		t.Errorf("expected quantity 50, got %d", b.Quantity)
	}
	if b.Global {
		t.Error("expected local barcode, got global")
	}
	if b.OrganizationID == nil || *b.OrganizationID != orgID {
		t.Errorf("expected organization %d, got %v", orgID, b.OrganizationID)
	}
	if b.CreatedAt.IsZero() || b.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreateGlobalBarcode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	canonicalID := createCanonical(t, database, "Diapers Size 4", "diapers_4")

	b, err := Create(ctx, database, Candidate{
		Value:     "DEADBEEF",
		Quantity:  "10",
		OwnerKind: model.OwnerKindCanonical,
		OwnerID:   canonicalID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !b.Global {
		t.Error("expected global barcode")
	}
	if b.OrganizationID != nil {
		t.Errorf("expected nil organization, got %d", *b.OrganizationID)
	}
}

func TestCreateCollectsAllFailures(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// No owner, blank value, non-numeric quantity, no organization: every
	// failure must be reported in one shot.
	_, err := Create(ctx, database, Candidate{
		Value:     "   ",
		Quantity:  "fifty",
		OwnerKind: model.OwnerKindItem,
		OwnerID:   999,
	})
	verrs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}

	for _, kind := range []string{KindMissingOwner, KindMissingValue, KindInvalidQuantity, KindMissingOrganization} {
		if !verrs.Has(kind) {
			t.Errorf("expected failure kind %q in %v", kind, verrs)
		}
	}
	if totalBarcodes(t, database) != 0 {
		t.Error("expected nothing persisted after validation failure")
	}
}

func TestCreateQuantityValidation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")

	tests := []struct {
		quantity string
		kind     string
	}{
		{"", KindMissingQuantity},
		{"  ", KindMissingQuantity},
		{"abc", KindInvalidQuantity},
		{"1.5", KindInvalidQuantity},
		{"-1", KindNegativeQuantity},
	}

	for _, tt := range tests {
		_, err := Create(ctx, database, Candidate{
			Value:          "V-" + tt.quantity,
			Quantity:       tt.quantity,
			OwnerKind:      model.OwnerKindItem,
			OwnerID:        itemID,
			OrganizationID: &orgID,
		})
		verrs, ok := AsValidationErrors(err)
		if !ok {
			t.Fatalf("quantity %q: expected ValidationErrors, got %v", tt.quantity, err)
		}
		if !verrs.Has(tt.kind) {
			t.Errorf("quantity %q: expected kind %q, got %v", tt.quantity, tt.kind, verrs)
		}
	}

	// Zero is a valid quantity.
	if _, err := Create(ctx, database, Candidate{
		Value:          "ZERO-QTY",
		Quantity:       "0",
		OwnerKind:      model.OwnerKindItem,
		OwnerID:        itemID,
		OrganizationID: &orgID,
	}); err != nil {
		t.Errorf("expected zero quantity to be valid: %v", err)
	}

	if n := totalBarcodes(t, database); n != 1 {
		t.Errorf("expected 1 persisted barcode, got %d", n)
	}
}

func TestCreateMissingOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")

	_, err := Create(ctx, database, Candidate{
		Value:          "NO-OWNER",
		Quantity:       "1",
		OwnerKind:      model.OwnerKindItem,
		OwnerID:        42,
		OrganizationID: &orgID,
	})
	verrs, ok := AsValidationErrors(err)
	if !ok || !verrs.Has(KindMissingOwner) {
		t.Errorf("expected missing owner failure, got %v", err)
	}
}

func TestCreateSoftDeletedItemIsMissingOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")
	if _, err := database.Exec(`UPDATE items SET deleted_at = CURRENT_TIMESTAMP WHERE id = ?`, itemID); err != nil {
		t.Fatalf("soft-deleting item: %v", err)
	}

	_, err := Create(ctx, database, Candidate{
		Value:          "GONE",
		Quantity:       "1",
		OwnerKind:      model.OwnerKindItem,
		OwnerID:        itemID,
		OrganizationID: &orgID,
	})
	verrs, ok := AsValidationErrors(err)
	if !ok || !verrs.Has(KindMissingOwner) {
		t.Errorf("expected missing owner failure for deleted item, got %v", err)
	}
}

func TestGlobalUniqueness(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c1 := createCanonical(t, database, "Wipes", "wipes")
	c2 := createCanonical(t, database, "Formula", "formula")

	if _, err := Create(ctx, database, Candidate{
		Value: "SHARED", Quantity: "1", OwnerKind: model.OwnerKindCanonical, OwnerID: c1,
	}); err != nil {
		t.Fatalf("first global create: %v", err)
	}

	_, err := Create(ctx, database, Candidate{
		Value: "SHARED", Quantity: "2", OwnerKind: model.OwnerKindCanonical, OwnerID: c2,
	})
	verrs, ok := AsValidationErrors(err)
	if !ok || !verrs.Has(KindDuplicateValue) {
		t.Errorf("expected duplicate value failure, got %v", err)
	}
	if n := totalBarcodes(t, database); n != 1 {
		t.Errorf("expected 1 barcode after duplicate rejection, got %d", n)
	}
}

func TestOrganizationUniquenessDomains(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org1 := createOrg(t, database, "Org One")
	org2 := createOrg(t, database, "Org Two")
	item1 := createItem(t, database, org1, "Item One", "")
	item2 := createItem(t, database, org2, "Item Two", "")

	if _, err := Create(ctx, database, Candidate{
		Value: "ABC123", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: item1, OrganizationID: &org1,
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Same value in the same organization conflicts.
	_, err := Create(ctx, database, Candidate{
		Value: "ABC123", Quantity: "2", OwnerKind: model.OwnerKindItem, OwnerID: item1, OrganizationID: &org1,
	})
	verrs, ok := AsValidationErrors(err)
	if !ok || !verrs.Has(KindDuplicateValue) {
		t.Errorf("expected duplicate in same organization, got %v", err)
	}

	// Same value in another organization does not conflict.
	if _, err := Create(ctx, database, Candidate{
		Value: "ABC123", Quantity: "3", OwnerKind: model.OwnerKindItem, OwnerID: item2, OrganizationID: &org2,
	}); err != nil {
		t.Errorf("expected no conflict across organizations: %v", err)
	}
}

func TestLocalAndGlobalDomainsAreIndependent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")
	canonicalID := createCanonical(t, database, "Canonical", "canon")

	if _, err := Create(ctx, database, Candidate{
		Value: "CROSS", Quantity: "1", OwnerKind: model.OwnerKindCanonical, OwnerID: canonicalID,
	}); err != nil {
		t.Fatalf("global create: %v", err)
	}

	// A local record with the same value as an existing global one is fine,
	// and the other way round: no write-time cross-domain exclusion.
	if _, err := Create(ctx, database, Candidate{
		Value: "CROSS", Quantity: "2", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	}); err != nil {
		t.Errorf("expected local value not to conflict with global: %v", err)
	}
}

func TestCounterIncrements(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")

	if got := barcodeCount(t, database, "items", itemID); got != 0 {
		t.Fatalf("expected initial barcode_count 0, got %d", got)
	}

	for i := range 3 {
		if _, err := Create(ctx, database, Candidate{
			Value:          "CODE-" + string(rune('A'+i)),
			Quantity:       "1",
			OwnerKind:      model.OwnerKindItem,
			OwnerID:        itemID,
			OrganizationID: &orgID,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	if got := barcodeCount(t, database, "items", itemID); got != 3 {
		t.Errorf("expected barcode_count 3, got %d", got)
	}
}

func TestCounterNotIncrementedOnFailure(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")

	Create(ctx, database, Candidate{
		Value: "", Quantity: "-5", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})

	if got := barcodeCount(t, database, "items", itemID); got != 0 {
		t.Errorf("expected barcode_count 0 after failed insert, got %d", got)
	}
}

func TestResolveLocalMasksGlobal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	otherOrg := createOrg(t, database, "Other Org")
	itemID := createItem(t, database, orgID, "Local Item", "")
	canonicalID := createCanonical(t, database, "Catalog Item", "catalog")

	// Global first, then the local override: creation order must not matter.
	global, err := Create(ctx, database, Candidate{
		Value: "DEADBEEF", Quantity: "24", OwnerKind: model.OwnerKindCanonical, OwnerID: canonicalID,
	})
	if err != nil {
		t.Fatalf("global create: %v", err)
	}
	local, err := Create(ctx, database, Candidate{
		Value: "DEADBEEF", Quantity: "12", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})
	if err != nil {
		t.Fatalf("local create: %v", err)
	}

	got, err := Resolve(ctx, database, orgID, "DEADBEEF")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.ID != local.ID {
		t.Errorf("expected local barcode %d to win, got %d", local.ID, got.ID)
	}

	// An organization without a local override sees the global record.
	got, err = Resolve(ctx, database, otherOrg, "DEADBEEF")
	if err != nil {
		t.Fatalf("Resolve other org: %v", err)
	}
	if got.ID != global.ID {
		t.Errorf("expected global barcode %d for other org, got %d", global.ID, got.ID)
	}
}

func TestResolveNeverReturnsForeignBarcode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	org1 := createOrg(t, database, "Org One")
	org2 := createOrg(t, database, "Org Two")
	item1 := createItem(t, database, org1, "Item", "")

	if _, err := Create(ctx, database, Candidate{
		Value: "PRIVATE", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: item1, OrganizationID: &org1,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := Resolve(ctx, database, org2, "PRIVATE"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for foreign barcode, got %v", err)
	}
}

func TestResolveNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")

	_, err := Resolve(ctx, database, orgID, "NOPE")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindByValueIncludingGlobal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")
	canonicalID := createCanonical(t, database, "Canonical", "canon")

	Create(ctx, database, Candidate{
		Value: "BOTH", Quantity: "1", OwnerKind: model.OwnerKindCanonical, OwnerID: canonicalID,
	})
	Create(ctx, database, Candidate{
		Value: "BOTH", Quantity: "2", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})

	matches, err := FindByValueIncludingGlobal(ctx, database, orgID, "BOTH")
	if err != nil {
		t.Fatalf("FindByValueIncludingGlobal: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	// Local sorts before global.
	if matches[0].Global || !matches[1].Global {
		t.Errorf("expected local match first, got %+v", matches)
	}
}

func TestListForOrganization(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	otherOrg := createOrg(t, database, "Other")
	itemID := createItem(t, database, orgID, "Item", "")
	otherItem := createItem(t, database, otherOrg, "Other Item", "")
	canonicalID := createCanonical(t, database, "Canonical", "canon")

	Create(ctx, database, Candidate{
		Value: "MINE", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})
	Create(ctx, database, Candidate{
		Value: "THEIRS", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: otherItem, OrganizationID: &otherOrg,
	})
	Create(ctx, database, Candidate{
		Value: "GLOBAL", Quantity: "1", OwnerKind: model.OwnerKindCanonical, OwnerID: canonicalID,
	})

	own, err := ListForOrganization(ctx, database, orgID, false)
	if err != nil {
		t.Fatalf("ListForOrganization: %v", err)
	}
	if len(own) != 1 || own[0].Value != "MINE" {
		t.Errorf("expected only own barcode, got %+v", own)
	}

	withGlobal, err := ListForOrganization(ctx, database, orgID, true)
	if err != nil {
		t.Fatalf("ListForOrganization include global: %v", err)
	}
	if len(withGlobal) != 2 {
		t.Errorf("expected own + global barcodes, got %+v", withGlobal)
	}
	for _, b := range withGlobal {
		if b.Value == "THEIRS" {
			t.Error("foreign organization's barcode leaked into listing")
		}
	}
}

func TestFindByOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")

	Create(ctx, database, Candidate{
		Value: "ONE", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})
	Create(ctx, database, Candidate{
		Value: "TWO", Quantity: "2", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})

	barcodes, err := FindByOwner(ctx, database, model.OwnerKindItem, itemID)
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(barcodes) != 2 {
		t.Errorf("expected 2 barcodes, got %d", len(barcodes))
	}
}

func TestPartnerKeyListings(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Diapers", "diapers_4")
	canonicalID := createCanonical(t, database, "Diapers Size 4", "diapers_4")

	Create(ctx, database, Candidate{
		Value: "LOCAL-KEY", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})
	Create(ctx, database, Candidate{
		Value: "GLOBAL-KEY", Quantity: "1", OwnerKind: model.OwnerKindCanonical, OwnerID: canonicalID,
	})

	byCanonical, err := ListByCanonicalPartnerKey(ctx, database, "diapers_4")
	if err != nil {
		t.Fatalf("ListByCanonicalPartnerKey: %v", err)
	}
	if len(byCanonical) != 1 || byCanonical[0].Value != "GLOBAL-KEY" {
		t.Errorf("expected the global barcode, got %+v", byCanonical)
	}

	byItem, err := ListByItemPartnerKey(ctx, database, "diapers_4")
	if err != nil {
		t.Fatalf("ListByItemPartnerKey: %v", err)
	}
	if len(byItem) != 1 || byItem[0].Value != "LOCAL-KEY" {
		t.Errorf("expected the local barcode, got %+v", byItem)
	}
}

func TestDigestOmitsOrganizationAndTimestamps(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")

	b, err := Create(ctx, database, Candidate{
		Value: "DIGEST", Quantity: "7", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	d := b.Digest()
	if d.OwnerID != itemID || d.OwnerKind != model.OwnerKindItem || d.Quantity != 7 {
		t.Errorf("unexpected digest: %+v", d)
	}
}

func TestRecount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	orgID := createOrg(t, database, "Org")
	itemID := createItem(t, database, orgID, "Item", "")
	canonicalID := createCanonical(t, database, "Canonical", "canon")

	Create(ctx, database, Candidate{
		Value: "R1", Quantity: "1", OwnerKind: model.OwnerKindItem, OwnerID: itemID, OrganizationID: &orgID,
	})
	Create(ctx, database, Candidate{
		Value: "R2", Quantity: "1", OwnerKind: model.OwnerKindCanonical, OwnerID: canonicalID,
	})

	// Simulate counter drift.
	if _, err := database.Exec(`UPDATE items SET barcode_count = 99 WHERE id = ?`, itemID); err != nil {
		t.Fatalf("forcing drift: %v", err)
	}

	if err := Recount(ctx, database); err != nil {
		t.Fatalf("Recount: %v", err)
	}

	if got := barcodeCount(t, database, "items", itemID); got != 1 {
		t.Errorf("expected recounted item barcode_count 1, got %d", got)
	}
	if got := barcodeCount(t, database, "canonical_items", canonicalID); got != 1 {
		t.Errorf("expected recounted canonical barcode_count 1, got %d", got)
	}
}
