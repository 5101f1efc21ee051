package usecase

import (
	"errors"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/catalog"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/converter"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/dto"
)

var ErrItemNotFound = errors.New("catalog item not found")

type CatalogUsecase interface {
	ListServices() *dto.ServiceListResponse
	SearchItems(term string) *dto.MedicalItemListResponse
	GetItem(id string) (*dto.MedicalItemResponse, error)
}

type catalogUsecase struct {
	catalog *catalog.Catalog
}

func NewCatalogUsecase(catalog *catalog.Catalog) CatalogUsecase {
	return &catalogUsecase{catalog: catalog}
}

func (u *catalogUsecase) ListServices() *dto.ServiceListResponse {
	return &dto.ServiceListResponse{Services: u.catalog.Services()}
}

// SearchItems is opt-in: an empty term returns no items.
func (u *catalogUsecase) SearchItems(term string) *dto.MedicalItemListResponse {
	return &dto.MedicalItemListResponse{
		Items: converter.MedicalItemsToResponses(u.catalog.Search(term)),
	}
}

func (u *catalogUsecase) GetItem(id string) (*dto.MedicalItemResponse, error) {
	item, ok := u.catalog.FindByID(id)
	if !ok {
		return nil, ErrItemNotFound
	}
	response := converter.MedicalItemToResponse(item)
	return &response, nil
}
