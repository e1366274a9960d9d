package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/example/stockkeeper/internal/command"
	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/example/stockkeeper/internal/infrastructure/store"
	"github.com/example/stockkeeper/internal/query"
)

const (
	// PersistErrorHeader is set on responses whose catalog is valid but could
	// not be written to the local store.
	PersistErrorHeader = "X-Persist-Error"
	// StoreErrorHeader is set on read responses served without the local
	// store because it could not be read.
	StoreErrorHeader = "X-Store-Error"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler

	// reconcile also writes the store, so reads and writes share one lock
	mu sync.Mutex
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Catalog Handlers

func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.queryHandler.Catalog(r.Context())
	respondCatalog(w, http.StatusOK, c, err)
}

func (h *Handlers) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.queryHandler.Search(r.Context(), r.URL.Query().Get("q"))
	respondCatalog(w, http.StatusOK, c, err)
}

func (h *Handlers) GetStatistics(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats, err := h.queryHandler.Statistics(r.Context())
	setStoreError(w, err)
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handlers) GetByBarcode(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	code := extractPathParam(r.URL.Path, "/catalog/barcode/")
	product, ok, err := h.queryHandler.FindByBarcode(r.Context(), code)
	setStoreError(w, err)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, productView{Product: product, Level: query.StockLevelOf(product)})
}

// Product Handlers

func (h *Handlers) InsertProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mutate(w, r, http.StatusCreated, func(c catalog.Catalog) (catalog.Catalog, error) {
		return h.cmdHandler.InsertProduct(r.Context(), c, command.InsertProduct{Product: p})
	})
}

func (h *Handlers) ScanProduct(w http.ResponseWriter, r *http.Request) {
	var draft catalog.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mutate(w, r, http.StatusCreated, func(c catalog.Catalog) (catalog.Catalog, error) {
		return h.cmdHandler.CreateProduct(r.Context(), c, command.CreateProduct{Draft: draft})
	})
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	var p catalog.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if p.ID != "" && p.ID.String() != id {
		http.Error(w, "Product id does not match path", http.StatusBadRequest)
		return
	}
	p.ID = catalog.ID(id)

	h.mutate(w, r, http.StatusOK, func(c catalog.Catalog) (catalog.Catalog, error) {
		return h.cmdHandler.UpdateProduct(r.Context(), c, command.UpdateProduct{Product: p})
	})
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")

	h.mutate(w, r, http.StatusOK, func(c catalog.Catalog) (catalog.Catalog, error) {
		return h.cmdHandler.RemoveProduct(r.Context(), c, command.RemoveProduct{ProductID: catalog.ID(id)})
	})
}

func (h *Handlers) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(extractPathParam(r.URL.Path, "/products/"), "/adjust")

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mutate(w, r, http.StatusOK, func(c catalog.Catalog) (catalog.Catalog, error) {
		return h.cmdHandler.AdjustQuantity(r.Context(), c, command.AdjustQuantity{ProductID: catalog.ID(id), Delta: req.Delta})
	})
}

// mutate reconciles, applies fn to the result and writes the new catalog.
// A mutation is refused when the local store cannot be read, since saving
// would overwrite records that were never loaded.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(catalog.Catalog) (catalog.Catalog, error)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.queryHandler.Catalog(r.Context())
	if errors.Is(err, store.ErrStorageUnavailable) {
		log.Printf("[API] Refusing mutation: %v", err)
		http.Error(w, "Local store unavailable", http.StatusServiceUnavailable)
		return
	}

	next, err := fn(current)
	switch {
	case errors.Is(err, catalog.ErrDuplicateIdentity):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, catalog.ErrInvalidProduct):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		respondCatalog(w, status, next, err)
	}
}

type productView struct {
	catalog.Product
	Level query.StockLevel `json:"stockLevel"`
}

// MarshalJSON appends stockLevel to the product object.
func (v productView) MarshalJSON() ([]byte, error) {
	product, err := json.Marshal(v.Product)
	if err != nil {
		return nil, err
	}
	level, err := json.Marshal(v.Level)
	if err != nil {
		return nil, err
	}
	out := append(product[:len(product)-1], `,"stockLevel":`...)
	out = append(out, level...)
	return append(out, '}'), nil
}

// setStoreError reports a non-fatal reconcile error in a header. The header
// names which side of the local store failed.
func setStoreError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
	case errors.Is(err, store.ErrStorageUnavailable):
		w.Header().Set(StoreErrorHeader, err.Error())
	default:
		w.Header().Set(PersistErrorHeader, err.Error())
	}
}

// respondCatalog writes c. A non-nil err is a store problem reported in a
// header; the catalog itself is still valid.
func respondCatalog(w http.ResponseWriter, status int, c catalog.Catalog, err error) {
	setStoreError(w, err)
	if c == nil {
		c = catalog.Catalog{}
	}
	respondJSON(w, status, c)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
