package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landlordID = "3f1c2a9e-8b4d-4e6f-9a1b-2c3d4e5f6a7b"

func TestLandlords_ListSendsFilter(t *testing.T) {
	var gotQuery map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/landlords", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"page":       q.Get("page"),
			"first_name": q.Get("first_name"),
			"phone":      q.Get("phone"),
			"address":    q.Get("address"),
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": []map[string]any{
				{"landlordID": landlordID, "firstName": "Ada", "phone": "08012345678", "propertyType": 2, "leasePrice": 1500000, "startDate": "2024-01-01T00:00:00Z"},
			},
			"metadata": map[string]bool{"hasNextPage": false},
		})
	})

	page, err := c.Landlords().List(context.Background(), ListFilter{FirstName: "Ada", Address: "Ikeja"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"page": "1", "first_name": "Ada", "phone": "", "address": "Ikeja"}, gotQuery)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Ada", page.Data[0].FirstName)
	assert.Equal(t, int64(1500000), page.Data[0].LeasePrice)
	assert.Equal(t, "2024-01-01", page.Data[0].StartDate.String())
	assert.False(t, page.Metadata.HasNextPage)
}

func TestTenants_EachFollowsPagination(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data":     []map[string]any{{"tenantID": strconv.Itoa(page), "firstName": "T" + strconv.Itoa(page)}},
			"metadata": map[string]bool{"hasNextPage": page < 3},
		})
	})

	var names []string
	err := c.Tenants().Each(context.Background(), ListFilter{}, func(tn Tenant) error {
		names = append(names, tn.FirstName)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"T1", "T2", "T3"}, names)
	assert.Equal(t, int32(3), calls.Load())
}

func TestTenants_EachStopsOnCallbackError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{
			"data":     []map[string]any{{"tenantID": "a"}, {"tenantID": "b"}},
			"metadata": map[string]bool{"hasNextPage": true},
		})
	})

	stop := errors.New("stop")
	err := c.Tenants().Each(context.Background(), ListFilter{}, func(Tenant) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, int32(1), calls.Load())
}

func TestLandlords_FindByPhone(t *testing.T) {
	tests := []struct {
		name    string
		data    []map[string]any
		wantID  string
		wantErr error
	}{
		{
			name:   "first match wins",
			data:   []map[string]any{{"landlordID": "first"}, {"landlordID": "second"}},
			wantID: "first",
		},
		{
			name:    "no match",
			data:    []map[string]any{},
			wantErr: ErrLandlordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "08011112222", r.URL.Query().Get("phone"))
				writeJSON(w, http.StatusOK, map[string]any{"data": tt.data, "metadata": map[string]bool{}})
			})

			l, err := c.Landlords().FindByPhone(context.Background(), "08011112222")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, l.LandlordID)
		})
	}
}

func TestResource_InvalidIDMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	ctx := context.Background()
	_, err := c.Landlords().Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = c.Tenants().AddRent(ctx, "../count", RentInfoParam{})
	assert.ErrorIs(t, err, ErrInvalidID)
	err = c.Tenants().Delete(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidID)

	assert.Equal(t, int32(0), calls.Load())
}

func TestLandlords_GetDecodesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/landlords/"+landlordID, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"landlordID": "` + landlordID + `",
			"firstName": "Ada",
			"phone": "08012345678",
			"createdAt": "2024-03-05T10:11:12.123Z",
			"propertyInfo": [
				{"propertyInfoID": 7, "address": "1 Marina", "propertyType": 4, "leasePrice": 900000,
				 "leasePeriod": 2, "startDate": "2024-01-01", "endDate": null, "additionalInfo": {"flatNo": 3}}
			]
		}`))
	})

	d, err := c.Landlords().Get(context.Background(), landlordID)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 5, 10, 11, 12, 123000000, time.UTC), d.CreatedAt.Time)
	require.Len(t, d.PropertyInfo, 1)
	p := d.PropertyInfo[0]
	assert.Equal(t, "Flat", PropertyTypeName(p.PropertyType))
	assert.Equal(t, "2024-01-01", p.StartDate.String())
	assert.True(t, p.EndDate.IsZero())
	assert.Equal(t, "3", p.AdditionalInfo.FlatNo.String())
}

func TestLandlords_AddPropertyUsesInfoEndpoint(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		writeJSON(w, http.StatusOK, map[string]any{"landlordID": landlordID, "propertyInfo": []any{}})
	})

	_, err := c.Landlords().AddProperty(context.Background(), landlordID, PropertyInfoParam{Address: "2 Broad St"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/landlords/"+landlordID+"/info", gotPath)
}

func TestResource_Count(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenants/count", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]int{"total": 42})
	})

	n, err := c.Tenants().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestResource_Export(t *testing.T) {
	t.Run("returns workbook bytes", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/landlords/xlsx", r.URL.Path)
			assert.Equal(t, xlsxMediaType, r.Header.Get("Accept"))
			w.Header().Set("Content-Type", xlsxMediaType)
			w.Write([]byte("PK\x03\x04"))
		})

		data, err := c.Landlords().Export(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte("PK\x03\x04"), data)
	})

	t.Run("empty body is an error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		_, err := c.Tenants().Export(context.Background())
		assert.Error(t, err)
	})
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, d.UnmarshalJSON([]byte(`"05/03/2024"`)))
	assert.Error(t, d.UnmarshalJSON([]byte(`20240305`)))
	require.NoError(t, d.UnmarshalJSON([]byte(`""`)))
	assert.Empty(t, d.String())
}
