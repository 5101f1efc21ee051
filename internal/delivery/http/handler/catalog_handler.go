package handler

import (
	"net/http"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/usecase"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/pkg/response"

	"github.com/gorilla/mux"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase}
}

// ListServices handles the hospital service list
// @Summary List hospital services
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response
// @Router /services [get]
func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Services retrieved successfully", h.catalogUsecase.ListServices())
}

// SearchItems handles catalog search
// @Summary Search medical items
// @Description Case-insensitive match on description or code, at most 15 results
// @Tags Catalog
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} response.Response
// @Router /catalog/items [get]
func (h *CatalogHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	items := h.catalogUsecase.SearchItems(r.URL.Query().Get("q"))
	response.Success(w, http.StatusOK, "Items retrieved successfully", items)
}

// GetItem handles a single catalog lookup
// @Summary Get medical item by id
// @Tags Catalog
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /catalog/items/{id} [get]
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := h.catalogUsecase.GetItem(id)
	if err != nil {
		switch err {
		case usecase.ErrItemNotFound:
			response.NotFound(w, "Item not found")
		default:
			response.InternalServerError(w, "Failed to get item")
		}
		return
	}

	response.Success(w, http.StatusOK, "Item retrieved successfully", item)
}
