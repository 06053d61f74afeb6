package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rentdesk/cli/api"
	"github.com/rentdesk/cli/config"
	"github.com/rentdesk/cli/session"
	"github.com/rentdesk/cli/tui"
	"github.com/rentdesk/cli/validate"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	adaID      = "3f2b8c1e-9d4a-4c6b-8e2f-1a7d5b9c0e42"
	bolaID     = "9c1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f"
	goneLordID = "7e6d5c4b-3a29-4180-9f7e-6d5c4b3a2918"
)

// fakeAPI serves the subset of the rentdesk API the commands use.
type fakeAPI struct {
	url      string
	workbook []byte

	mu          sync.Mutex
	createdBody map[string]any

	loginHits   atomic.Int32
	refreshHits atomic.Int32
	logoutHits  atomic.Int32
	dataHits    atomic.Int32
	createHits  atomic.Int32
	detailHits  atomic.Int32
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{workbook: landlordWorkbook(t)}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	f.url = srv.URL
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	switch r.URL.Path {
	case "/api/auth/login":
		f.loginHits.Add(1)
		var p api.LoginParam
		json.NewDecoder(r.Body).Decode(&p)
		if p.Password != "secret" {
			writeJSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "cred-1", HttpOnly: true})
		writeJSON(http.StatusOK, map[string]string{"token": "abc", "type": "Bearer"})
		return

	case "/api/auth/refresh":
		f.refreshHits.Add(1)
		if ck, err := r.Cookie("refresh_token"); err != nil || ck.Value != "cred-1" {
			writeJSON(http.StatusUnauthorized, map[string]string{"error": "refresh token revoked"})
			return
		}
		writeJSON(http.StatusOK, map[string]string{"token": "def", "type": "Bearer"})
		return

	case "/api/auth/logout":
		f.logoutHits.Add(1)
		w.WriteHeader(http.StatusNoContent)
		return
	}

	f.dataHits.Add(1)
	switch r.Header.Get("Authorization") {
	case "Bearer abc", "Bearer def":
	default:
		writeJSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	ada := map[string]any{
		"landlordID":   adaID,
		"firstName":    "Ada",
		"lastName":     "Obi",
		"phone":        "08012345678",
		"address":      "1 Marina",
		"propertyType": 2,
		"leasePrice":   1500000,
		"leasePeriod":  2,
		"startDate":    "2024-01-01T00:00:00.000Z",
		"endDate":      "2026-01-01T00:00:00.000Z",
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/landlords":
		data := []any{}
		if phone := r.URL.Query().Get("phone"); phone == "" || phone == "08012345678" {
			data = append(data, ada)
		}
		writeJSON(http.StatusOK, map[string]any{"data": data, "metadata": map[string]bool{"hasNextPage": false}})

	case r.URL.Path == "/api/landlords/"+adaID:
		f.detailHits.Add(1)
		detail := map[string]any{}
		for _, k := range []string{"landlordID", "firstName", "lastName", "phone"} {
			detail[k] = ada[k]
		}
		detail["propertyInfo"] = []any{
			map[string]any{"propertyInfoID": 1, "address": "1 Marina", "propertyType": 2, "leasePrice": 1500000, "leasePeriod": 2},
			map[string]any{"propertyInfoID": 2, "address": "4 Broad St", "propertyType": 4, "additionalInfo": map[string]any{"flatNo": 3}},
		}
		writeJSON(http.StatusOK, detail)

	case r.URL.Path == "/api/tenants/"+bolaID:
		writeJSON(http.StatusOK, map[string]any{
			"tenantID":  bolaID,
			"firstName": "Bola",
			"phone":     "08098765432",
			"rentInfo": []any{
				map[string]any{"rentInfoID": 1, "address": "1 Marina", "rentFee": 500000, "landlordID": adaID},
				map[string]any{"rentInfoID": 2, "address": "4 broad st", "rentFee": 300000, "landlordID": adaID},
				map[string]any{"rentInfoID": 3, "address": "9 Allen Ave", "rentFee": 200000, "landlordID": goneLordID},
			},
		})

	case r.URL.Path == "/api/landlords/count":
		writeJSON(http.StatusOK, map[string]int{"total": 1234})

	case r.URL.Path == "/api/tenants/count":
		writeJSON(http.StatusOK, map[string]int{"total": 56})

	case r.Method == http.MethodPost && r.URL.Path == "/api/tenants":
		f.createHits.Add(1)
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.createdBody = body
		f.mu.Unlock()
		body["tenantID"] = bolaID
		writeJSON(http.StatusCreated, body)

	case r.URL.Path == "/api/landlords/xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write(f.workbook)

	default:
		writeJSON(http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (f *fakeAPI) created() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createdBody
}

func landlordWorkbook(t *testing.T) []byte {
	t.Helper()
	x := excelize.NewFile()
	defer x.Close()
	require.NoError(t, x.SetSheetRow("Sheet1", "A1", &[]any{"First Name", "Phone"}))
	require.NoError(t, x.SetSheetRow("Sheet1", "A2", &[]any{"Ada", "08012345678"}))
	buf, err := x.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// cli runs commands against one fake API and one credential file, each call a
// fresh process as far as session state is concerned.
type cli struct {
	t   *testing.T
	cfg *config.Config
}

func newCLI(t *testing.T, f *fakeAPI) *cli {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{
		"BASE_URL":        f.url,
		"CREDENTIAL_FILE": filepath.Join(t.TempDir(), "credentials.json"),
	}, config.Flags{})
	require.NoError(t, err)
	return &cli{t: t, cfg: cfg}
}

func (c *cli) run(args ...string) (string, error) {
	var out bytes.Buffer
	err := run(context.Background(), c.cfg, args, tui.NoopDisplayer{}, &out, zerolog.Nop())
	return out.String(), err
}

func (c *cli) login() {
	c.t.Helper()
	_, err := c.run("login", "-email", "admin@rentdesk.ng", "-password", "secret")
	require.NoError(c.t, err)
}

func TestParseArgs(t *testing.T) {
	inv, err := parseArgs([]string{"-base-url", "https://api.example.com", "landlords", "list", "-page", "2"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", *inv.flags.BaseURL)
	assert.Equal(t, []string{"landlords", "list", "-page", "2"}, inv.args)

	_, err = parseArgs(nil, io.Discard)
	assert.EqualError(t, err, "no command given")

	_, err = parseArgs([]string{"-h"}, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "bogus")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "₦0"},
		{950, "₦950"},
		{1500000, "₦1,500,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.in))
	}
}

func TestParseWithID(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"id first", []string{adaID, "-address", "x"}, adaID},
		{"id last", []string{"-address", "x", adaID}, adaID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet("test")
			address := fs.String("address", "", "")
			id, err := parseWithID(fs, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, "x", *address)
		})
	}

	_, err := parseWithID(newFlagSet("test"), nil)
	assert.EqualError(t, err, "missing record ID")
}

func TestUnknownCommand(t *testing.T) {
	c := newCLI(t, newFakeAPI(t))
	_, err := c.run("leases")
	assert.EqualError(t, err, `unknown command "leases"`)

	_, err = c.run("landlords")
	assert.ErrorContains(t, err, "usage: rentdesk landlords <add-property|count|create|delete|export|get|list>")
}

func TestLoginThenListRestoresSession(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	out, err := c.run("landlords", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Obi")
	assert.Contains(t, out, "₦1,500,000")
	assert.Contains(t, out, "Bungalow")
	assert.Equal(t, int32(1), f.refreshHits.Load(), "second run restores through one refresh")
}

func TestLoginRejected(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)

	_, err := c.run("login", "-email", "admin@rentdesk.ng", "-password", "wrong")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr), "want *api.Error, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = c.run("login", "-email", "not-an-email", "-password", "x")
	var fieldErrs validate.Errors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, int32(1), f.loginHits.Load())
}

func TestNotLoggedIn(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)

	_, err := c.run("landlords", "list")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Equal(t, int32(0), f.dataHits.Load())
	assert.Equal(t, int32(0), f.refreshHits.Load())
	assert.ErrorContains(t, explain(err), "run: rentdesk login")
}

func TestLoginWithoutPersist(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	_, err := c.run("login", "-email", "admin@rentdesk.ng", "-password", "secret", "-persist=false")
	require.NoError(t, err)

	_, err = c.run("landlords", "count")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Equal(t, int32(0), f.refreshHits.Load())
}

func TestLogout(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	out, err := c.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.Equal(t, int32(1), f.logoutHits.Load())

	_, err = c.run("landlords", "count")
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}

func TestStatus(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)

	out, err := c.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")

	c.login()
	out, err = c.run("status")
	require.NoError(t, err)
	assert.Contains(t, out, "restored")
	assert.Contains(t, out, "Bearer")
}

func TestStats(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	out, err := c.run("stats")
	require.NoError(t, err)
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "56")
}

func TestLandlordsCreate_InvalidMakesNoRequest(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)

	_, err := c.run("landlords", "create",
		"-first-name", "Ada", "-phone", "0801",
		"-address", "1 Marina", "-property-type", "2",
		"-lease-price", "1500000", "-lease-period", "2", "-start-date", "2024-01-01",
	)
	var fieldErrs validate.Errors
	require.True(t, errors.As(err, &fieldErrs), "want validate.Errors, got %v", err)
	assert.Equal(t, validate.Errors{"phone": "Provide a valid phone number"}, fieldErrs)
	assert.Zero(t, f.dataHits.Load()+f.refreshHits.Load())
}

func tenantArgs(landlordPhone string) []string {
	return []string{
		"tenants", "create",
		"-first-name", "Bola", "-gender", "Female", "-dob", "1990-05-17",
		"-phone", "08098765432", "-state", "Lagos", "-nationality", "Nigerian",
		"-occupation", "Engineer", "-marital-status", "Single",
		"-address", "1 Marina", "-rent-fee", "500000", "-start-date", "2024-01-01",
		"-landlord-phone", landlordPhone,
	}
}

func TestTenantsCreate_ResolvesLandlord(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	out, err := c.run(tenantArgs("08012345678")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created tenant")

	body := f.created()
	require.NotNil(t, body)
	assert.Equal(t, adaID, body["landlordID"])
	assert.Equal(t, "2024-11-30", body["maturityDate"])
	assert.Equal(t, "2024-12-30", body["renewalDate"])
	assert.NotContains(t, body, "landlordPhone")
}

func TestTenantsCreate_UnknownLandlord(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	_, err := c.run(tenantArgs("08000000000")...)
	assert.ErrorIs(t, err, api.ErrLandlordNotFound)
	assert.Zero(t, f.createHits.Load())
}

func TestLandlordsExport(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	path := filepath.Join(t.TempDir(), "reports", "landlords.csv")
	out, err := c.run("landlords", "export", "-o", path, "-format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 2 rows")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "First Name,Phone\nAda,08012345678\n", string(got))
}

func TestLandlordsGet_InvalidID(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()
	hits := f.dataHits.Load()

	_, err := c.run("landlords", "get", "42")
	assert.ErrorIs(t, err, api.ErrInvalidID)
	assert.Equal(t, hits, f.dataHits.Load())
}

func TestTenantsGet_ShowsRentLandlords(t *testing.T) {
	f := newFakeAPI(t)
	c := newCLI(t, f)
	c.login()

	out, err := c.run("tenants", "get", bolaID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Obi (08012345678)")
	assert.Contains(t, out, "Bungalow")
	assert.Contains(t, out, "Flat, flat 3")
	assert.Contains(t, out, goneLordID, "unknown landlord falls back to its ID")
	assert.Equal(t, int32(1), f.detailHits.Load(), "each landlord is fetched once")
}

func TestUsageListsCommands(t *testing.T) {
	for name := range commands {
		assert.True(t, strings.Contains(usageText, name), "usage is missing %q", name)
	}
}
