package api

import (
	"database/sql"
	"net/http"

	"donorbase/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	orgsHandler := &OrganizationsHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	canonicalHandler := &CanonicalHandler{DB: db}
	barcodesHandler := &BarcodesHandler{DB: db}
	scansHandler := &ScansHandler{DB: db}
	stockHandler := &StockHandler{DB: db}
	distributionsHandler := &DistributionsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Organizations: read (all roles), write (admin only).
	mux.Handle("GET /api/organizations", authMW(http.HandlerFunc(orgsHandler.List)))
	mux.Handle("POST /api/organizations", authMW(requireAdmin(http.HandlerFunc(orgsHandler.Create))))
	mux.Handle("GET /api/organizations/{id}", authMW(http.HandlerFunc(orgsHandler.Get)))
	mux.Handle("PUT /api/organizations/{id}", authMW(requireAdmin(http.HandlerFunc(orgsHandler.Update))))
	mux.Handle("DELETE /api/organizations/{id}", authMW(requireAdmin(http.HandlerFunc(orgsHandler.Delete))))
	mux.Handle("GET /api/organizations/{id}/stock", authMW(http.HandlerFunc(orgsHandler.GetStock)))

	// Items: read (all roles), write (manager+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireManager(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("GET /api/items/{id}/barcodes", authMW(http.HandlerFunc(itemsHandler.ListBarcodes)))
	mux.Handle("POST /api/items/{id}/barcodes", authMW(requireManager(http.HandlerFunc(itemsHandler.RegisterBarcode))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireManager(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Shared catalog: read (all roles), write (admin only).
	mux.Handle("GET /api/canonical-items", authMW(http.HandlerFunc(canonicalHandler.List)))
	mux.Handle("POST /api/canonical-items", authMW(requireAdmin(http.HandlerFunc(canonicalHandler.Create))))
	mux.Handle("GET /api/canonical-items/{id}", authMW(http.HandlerFunc(canonicalHandler.Get)))
	mux.Handle("PUT /api/canonical-items/{id}", authMW(requireAdmin(http.HandlerFunc(canonicalHandler.Update))))
	mux.Handle("GET /api/canonical-items/{id}/barcodes", authMW(http.HandlerFunc(canonicalHandler.ListBarcodes)))
	mux.Handle("POST /api/canonical-items/{id}/barcodes", authMW(requireAdmin(http.HandlerFunc(canonicalHandler.RegisterBarcode))))

	// Barcodes: read-only surface over both tiers.
	mux.Handle("GET /api/barcodes", authMW(http.HandlerFunc(barcodesHandler.List)))
	mux.Handle("GET /api/barcodes/resolve", authMW(http.HandlerFunc(barcodesHandler.Resolve)))
	mux.Handle("GET /api/barcodes/export", authMW(http.HandlerFunc(barcodesHandler.Export)))
	mux.Handle("GET /api/barcodes/{id}", authMW(http.HandlerFunc(barcodesHandler.Get)))

	// Intake scans and stock (all roles scan, manager+ adjusts).
	mux.Handle("POST /api/scans", authMW(http.HandlerFunc(scansHandler.Create)))
	mux.Handle("GET /api/stock", authMW(http.HandlerFunc(stockHandler.List)))
	mux.Handle("POST /api/stock/adjust", authMW(requireManager(http.HandlerFunc(stockHandler.Adjust))))

	// Distributions (all roles).
	mux.Handle("POST /api/distributions", authMW(http.HandlerFunc(distributionsHandler.Create)))
	mux.Handle("GET /api/distributions", authMW(http.HandlerFunc(distributionsHandler.List)))

	return mux
}
