// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parkingapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/parkir/lib/failure"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
	"github.com/bureau-foundation/parkir/lib/secret"
	"github.com/bureau-foundation/parkir/lib/session"
)

// memoryCredentials is an in-memory Credentials that counts Clear calls.
type memoryCredentials struct {
	mu      sync.Mutex
	token   string
	profile *parking.Profile
	clears  int
}

func (m *memoryCredentials) Token(context.Context) (*secret.Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return nil, session.ErrNoSession
	}
	return secret.NewFromString(m.token)
}

func (m *memoryCredentials) HasToken(context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

func (m *memoryCredentials) Save(_ context.Context, token *secret.Buffer, profile *parking.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token.String()
	m.profile = profile
	return nil
}

func (m *memoryCredentials) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.token = ""
	m.profile = nil
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, credentials *memoryCredentials) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(ClientConfig{
		Endpoint:   StaticEndpoint(server.URL + "/api/v1/"),
		Sessions:   credentials,
		HTTPClient: server.Client(),
		Timeout:    2 * time.Second,
		UserAgent:  "parkir/test",
		Logger:     slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func password(t *testing.T, s string) *secret.Buffer {
	t.Helper()
	buffer, err := secret.NewFromString(s)
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	t.Cleanup(func() { buffer.Close() })
	return buffer
}

func TestLoginSuccessStoresToken(t *testing.T) {
	credentials := &memoryCredentials{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		var body parking.Credentials
		json.NewDecoder(r.Body).Decode(&body)
		if body.Email != "a@b.com" || body.Password != "rahasia" {
			t.Errorf("unexpected body %+v", body)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "ok",
			"data": map[string]any{
				"token": "tok-123",
				"user":  map[string]any{"id": 5, "name": "Petugas", "email": "a@b.com"},
			},
		})
	}, credentials)

	profile, err := client.Login(context.Background(), " a@b.com ", password(t, "rahasia"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if profile.ID != 5 || profile.Name != "Petugas" {
		t.Errorf("profile = %+v", profile)
	}
	if credentials.token != "tok-123" {
		t.Errorf("stored token = %q, want %q", credentials.token, "tok-123")
	}
	if !client.IsAuthenticated(context.Background()) {
		t.Error("expected IsAuthenticated after login")
	}
}

func TestLoginUnauthorizedStoresNothing(t *testing.T) {
	credentials := &memoryCredentials{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
	}, credentials)

	_, err := client.Login(context.Background(), "a@b.com", password(t, "x"))
	if !errors.Is(err, failure.AuthError) {
		t.Fatalf("expected Auth error, got %v", err)
	}
	if notice := failure.Notice(err); !strings.Contains(notice.Message, "Email atau password salah") {
		t.Errorf("notice = %q", notice.Message)
	}
	if credentials.token != "" {
		t.Errorf("expected no token stored, got %q", credentials.token)
	}
	if credentials.clears != 0 {
		t.Errorf("login 401 must not clear, got %d clears", credentials.clears)
	}
}

func TestLoginValidatesLocally(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true }, &memoryCredentials{})

	_, err := client.Login(context.Background(), "not-an-email", password(t, "x"))
	if failure.KindOf(err) != failure.Validation {
		t.Fatalf("expected Validation, got %v", err)
	}
	if called {
		t.Error("server must not be contacted for invalid input")
	}
}

func TestLoginStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		body   map[string]any
		want   failure.Kind
	}{
		{http.StatusUnprocessableEntity, map[string]any{"errors": map[string][]string{"email": {"Email tidak terdaftar."}}}, failure.Validation},
		{http.StatusTooManyRequests, map[string]any{"message": "slow down"}, failure.RateLimited},
		{http.StatusInternalServerError, map[string]any{"message": "boom"}, failure.Server},
		{http.StatusOK, map[string]any{"success": true, "data": map[string]any{}}, failure.Server},
	}
	for _, test := range tests {
		t.Run(http.StatusText(test.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, test.status, test.body)
			}, &memoryCredentials{})
			_, err := client.Login(context.Background(), "a@b.com", password(t, "x"))
			if got := failure.KindOf(err); got != test.want {
				t.Errorf("kind = %v, want %v (err %v)", got, test.want, err)
			}
		})
	}
}

func TestValidationFieldsCarried(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  map[string][]string{"license_plate": {"Plat tidak valid."}},
		})
	}, &memoryCredentials{token: "tok"})

	_, err := client.CreateTransaction(context.Background(), parking.NewParkingTransaction(2, "B 1"))
	var classified *failure.Error
	if !errors.As(err, &classified) {
		t.Fatalf("expected *failure.Error, got %v", err)
	}
	if got := classified.Fields["license_plate"]; len(got) != 1 || got[0] != "Plat tidak valid." {
		t.Errorf("fields = %v", classified.Fields)
	}
}

func TestVehicleTypesHeadersAndOrdering(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/vehicle-types" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("order_by"); got != "id" {
			t.Errorf("order_by = %q", got)
		}
		if got := r.URL.Query().Get("order_direction"); got != "asc" {
			t.Errorf("order_direction = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		if got := r.Header.Get("User-Agent"); got != "parkir/test" {
			t.Errorf("User-Agent = %q", got)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": 3, "name": "Truk", "flat_rate": 10000},
				{"id": 1, "name": "Motor", "flat_rate": 2000, "price_per_hour": 1000},
				{"id": 0, "name": "Rusak", "flat_rate": 1},
				{"id": 2, "name": "Mobil", "flat_rate": 5000},
			},
		})
	}, &memoryCredentials{token: "tok"})

	types, err := client.VehicleTypes(context.Background())
	if err != nil {
		t.Fatalf("VehicleTypes: %v", err)
	}
	if len(types) != 3 {
		t.Fatalf("got %d types, want 3 (invalid entry dropped)", len(types))
	}
	for i, want := range []int64{1, 2, 3} {
		if types[i].ID != want {
			t.Errorf("types[%d].ID = %d, want %d", i, types[i].ID, want)
		}
	}
	if !types[0].PricePerHour.Valid || types[0].PricePerHour.Int64 != 1000 {
		t.Errorf("price_per_hour = %+v", types[0].PricePerHour)
	}
}

func TestUnauthorizedClearsCredentialOnce(t *testing.T) {
	for _, call := range []struct {
		name string
		run  func(*Client) error
	}{
		{"vehicle types", func(c *Client) error { _, err := c.VehicleTypes(context.Background()); return err }},
		{"create transaction", func(c *Client) error {
			_, err := c.CreateTransaction(context.Background(), parking.NewParkingTransaction(2, ""))
			return err
		}},
	} {
		t.Run(call.name, func(t *testing.T) {
			credentials := &memoryCredentials{token: "stale"}
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
			}, credentials)

			err := call.run(client)
			if !errors.Is(err, failure.SessionExpiredError) {
				t.Fatalf("expected SessionExpired, got %v", err)
			}
			if credentials.clears != 1 {
				t.Errorf("clears = %d, want 1", credentials.clears)
			}
			if credentials.token != "" {
				t.Error("expected token cleared")
			}

			// A second call has no credential and must not clear again.
			err = call.run(client)
			if !errors.Is(err, failure.SessionExpiredError) {
				t.Fatalf("expected SessionExpired on second call, got %v", err)
			}
			if credentials.clears != 1 {
				t.Errorf("clears after second call = %d, want 1", credentials.clears)
			}
		})
	}
}

func TestOtherErrorsKeepCredential(t *testing.T) {
	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusTooManyRequests, http.StatusBadGateway} {
		credentials := &memoryCredentials{token: "tok"}
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status, map[string]any{"message": "no"})
		}, credentials)
		if _, err := client.VehicleTypes(context.Background()); err == nil {
			t.Fatalf("status %d: expected error", status)
		}
		if credentials.clears != 0 || credentials.token != "tok" {
			t.Errorf("status %d must not touch the credential", status)
		}
	}
}

func TestCreateTransactionBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		if string(data) != `{"vehicle_type_id":2,"license_plate":"B 1234 ABC"}` {
			t.Errorf("body = %s", data)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": 77}})
	}, &memoryCredentials{token: "tok"})

	record, err := client.CreateTransaction(context.Background(), parking.NewParkingTransaction(2, " B 1234 ABC "))
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if !record.ID.Valid || record.ID.Int64 != 77 {
		t.Errorf("ID = %+v, want 77", record.ID)
	}
}

func TestCreateTransactionOmitsBlankPlate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		if strings.Contains(string(data), "license_plate") {
			t.Errorf("body = %s, expected no license_plate", data)
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": 1}})
	}, &memoryCredentials{token: "tok"})

	if _, err := client.CreateTransaction(context.Background(), parking.NewParkingTransaction(2, "   ")); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
}

func TestNoCredentialIsSessionExpired(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true }, &memoryCredentials{})
	if _, err := client.VehicleTypes(context.Background()); !errors.Is(err, failure.SessionExpiredError) {
		t.Fatalf("expected SessionExpired, got %v", err)
	}
	if called {
		t.Error("server must not be contacted without a credential")
	}
}

func TestTimeoutKind(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := NewClient(ClientConfig{
		Endpoint: StaticEndpoint(server.URL),
		Sessions: &memoryCredentials{token: "tok"},
		Timeout:  50 * time.Millisecond,
		Logger:   slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.VehicleTypes(context.Background())
	if failure.KindOf(err) != failure.Timeout {
		t.Fatalf("expected Timeout, got %v", err)
	}
}

func TestNetworkKind(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	address := server.URL
	server.Close()

	client, err := NewClient(ClientConfig{
		Endpoint: StaticEndpoint(address),
		Sessions: &memoryCredentials{token: "tok"},
		Logger:   slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.VehicleTypes(context.Background())
	if failure.KindOf(err) != failure.Network {
		t.Fatalf("expected Network, got %v", err)
	}
}

func TestLogoutAlwaysClearsLocally(t *testing.T) {
	credentials := &memoryCredentials{token: "tok"}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/logout" {
			t.Errorf("path = %s", r.URL.Path)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "down"})
	}, credentials)

	client.Logout(context.Background())
	if credentials.token != "" || credentials.clears != 1 {
		t.Errorf("expected local clear, token=%q clears=%d", credentials.token, credentials.clears)
	}
}

func TestEndpointResolvedPerRequest(t *testing.T) {
	var hits []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, r.URL.Path)
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	}))
	defer server.Close()

	base := server.URL + "/a"
	client, err := NewClient(ClientConfig{
		Endpoint: func(context.Context) string { return base },
		Sessions: &memoryCredentials{token: "tok"},
		Logger:   slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.VehicleTypes(context.Background())
	base = server.URL + "/b"
	client.VehicleTypes(context.Background())

	if len(hits) != 2 || hits[0] != "/a/vehicle-types" || hits[1] != "/b/vehicle-types" {
		t.Errorf("hits = %v", hits)
	}
}
