package api

import (
	"context"
	"errors"
)

// ErrLandlordNotFound is returned when a phone lookup matches no landlord.
var ErrLandlordNotFound = errors.New("no landlord found")

// LandlordService wraps the /api/landlords endpoints.
type LandlordService struct {
	r resource[Landlord, LandlordDetail]
}

// Landlords returns the landlord endpoints.
func (c *Client) Landlords() *LandlordService {
	return &LandlordService{r: resource[Landlord, LandlordDetail]{c: c, base: "/api/landlords"}}
}

// List returns one page of landlords.
func (s *LandlordService) List(ctx context.Context, f ListFilter) (Page[Landlord], error) {
	return s.r.list(ctx, f)
}

// Each calls fn for every landlord from f.Page onwards, following pagination.
func (s *LandlordService) Each(ctx context.Context, f ListFilter, fn func(Landlord) error) error {
	return s.r.each(ctx, f, fn)
}

// FindByPhone returns the first landlord registered with phone.
func (s *LandlordService) FindByPhone(ctx context.Context, phone string) (Landlord, error) {
	page, err := s.r.list(ctx, ListFilter{Phone: phone})
	if err != nil {
		return Landlord{}, err
	}
	if len(page.Data) == 0 {
		return Landlord{}, ErrLandlordNotFound
	}
	return page.Data[0], nil
}

// Get returns a landlord with all their properties.
func (s *LandlordService) Get(ctx context.Context, id string) (LandlordDetail, error) {
	return s.r.get(ctx, id)
}

// Create registers a landlord.
func (s *LandlordService) Create(ctx context.Context, p LandlordParam) (Landlord, error) {
	return s.r.create(ctx, p)
}

// AddProperty adds a property to a landlord and returns the updated detail.
func (s *LandlordService) AddProperty(ctx context.Context, id string, p PropertyInfoParam) (LandlordDetail, error) {
	return s.r.addInfo(ctx, id, p)
}

// Delete removes a landlord.
func (s *LandlordService) Delete(ctx context.Context, id string) error {
	return s.r.remove(ctx, id)
}

// Count returns the number of registered landlords.
func (s *LandlordService) Count(ctx context.Context) (int, error) {
	return s.r.count(ctx)
}

// Export downloads the landlord workbook.
func (s *LandlordService) Export(ctx context.Context) ([]byte, error) {
	return s.r.export(ctx)
}
