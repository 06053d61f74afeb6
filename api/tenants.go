package api

import "context"

// TenantService wraps the /api/tenants endpoints.
type TenantService struct {
	r resource[Tenant, TenantDetail]
}

// Tenants returns the tenant endpoints.
func (c *Client) Tenants() *TenantService {
	return &TenantService{r: resource[Tenant, TenantDetail]{c: c, base: "/api/tenants"}}
}

func (s *TenantService) List(ctx context.Context, f ListFilter) (Page[Tenant], error) {
	return s.r.list(ctx, f)
}

func (s *TenantService) Each(ctx context.Context, f ListFilter, fn func(Tenant) error) error {
	return s.r.each(ctx, f, fn)
}

func (s *TenantService) Get(ctx context.Context, id string) (TenantDetail, error) {
	return s.r.get(ctx, id)
}

// Create registers a tenant. p.LandlordID must already be resolved.
func (s *TenantService) Create(ctx context.Context, p TenantParam) (Tenant, error) {
	return s.r.create(ctx, p)
}

// AddRent adds a rent agreement to a tenant. p.LandlordID must already be resolved.
func (s *TenantService) AddRent(ctx context.Context, id string, p RentInfoParam) (TenantDetail, error) {
	return s.r.addInfo(ctx, id, p)
}

func (s *TenantService) Delete(ctx context.Context, id string) error {
	return s.r.remove(ctx, id)
}

func (s *TenantService) Count(ctx context.Context) (int, error) {
	return s.r.count(ctx)
}

func (s *TenantService) Export(ctx context.Context) ([]byte, error) {
	return s.r.export(ctx)
}
