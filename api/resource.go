package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// xlsxMediaType is requested from the export endpoints.
const xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrInvalidID is returned before any network call for a malformed record ID.
var ErrInvalidID = errors.New("invalid id")

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w %q: must be a UUID", ErrInvalidID, id)
	}
	return nil
}

func (f ListFilter) values() url.Values {
	page := f.Page
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("first_name", f.FirstName)
	q.Set("phone", f.Phone)
	q.Set("address", f.Address)
	return q
}

// resource holds the endpoints shared by landlords and tenants.
type resource[T, D any] struct {
	c    *Client
	base string
}

func (r resource[T, D]) list(ctx context.Context, f ListFilter) (Page[T], error) {
	return call[Page[T]](ctx, r.c, http.MethodGet, r.base, f.values(), nil)
}

// each walks pages from f.Page until the server reports no next page.
func (r resource[T, D]) each(ctx context.Context, f ListFilter, fn func(T) error) error {
	if f.Page < 1 {
		f.Page = 1
	}
	for {
		page, err := r.list(ctx, f)
		if err != nil {
			return err
		}
		for _, item := range page.Data {
			if err := fn(item); err != nil {
				return err
			}
		}
		if !page.Metadata.HasNextPage || len(page.Data) == 0 {
			return nil
		}
		f.Page++
	}
}

func (r resource[T, D]) get(ctx context.Context, id string) (D, error) {
	if err := checkID(id); err != nil {
		var zero D
		return zero, err
	}
	return call[D](ctx, r.c, http.MethodGet, r.base+"/"+id, nil, nil)
}

func (r resource[T, D]) create(ctx context.Context, body any) (T, error) {
	return call[T](ctx, r.c, http.MethodPost, r.base, nil, body)
}

func (r resource[T, D]) addInfo(ctx context.Context, id string, body any) (D, error) {
	if err := checkID(id); err != nil {
		var zero D
		return zero, err
	}
	return call[D](ctx, r.c, http.MethodPut, r.base+"/"+id+"/info", nil, body)
}

func (r resource[T, D]) remove(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	req, err := NewRequest(http.MethodDelete, r.base+"/"+id, nil)
	if err != nil {
		return err
	}
	_, err = r.c.Do(ctx, req)
	return err
}

func (r resource[T, D]) count(ctx context.Context) (int, error) {
	c, err := call[Count](ctx, r.c, http.MethodGet, r.base+"/count", nil, nil)
	return c.Total, err
}

func (r resource[T, D]) export(ctx context.Context) ([]byte, error) {
	req, err := NewRequest(http.MethodGet, r.base+"/xlsx", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", xlsxMediaType)
	resp, err := r.c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Body) == 0 {
		return nil, errors.New("export returned an empty workbook")
	}
	return resp.Body, nil
}
