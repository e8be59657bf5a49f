// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/parkir/cmd/parkir/cli"
	"github.com/bureau-foundation/parkir/internal/mockapi"
	"github.com/bureau-foundation/parkir/lib/clock"
	"github.com/bureau-foundation/parkir/lib/printer"
	"github.com/bureau-foundation/parkir/lib/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

const (
	operatorEmail    = "petugas@parkir.local"
	operatorPassword = "rahasia"
)

type harnessOptions struct {
	environment    string
	export         bool
	printerAddress string
}

type harness struct {
	t          *testing.T
	mock       *mockapi.Server
	clock      *clock.FakeClock
	root       string
	apiURL     string
	configPath string
}

func newHarness(t *testing.T, options harnessOptions) *harness {
	t.Helper()
	fake := clock.Fake(time.Date(2025, 7, 23, 7, 30, 0, 0, time.UTC))

	mock, err := mockapi.New(mockapi.Config{
		Secret:     []byte("test-secret"),
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
		Clock:      fake,
	})
	if err != nil {
		t.Fatalf("mockapi.New: %v", err)
	}
	if _, err := mock.AddOperator(operatorEmail, operatorPassword, "Petugas Parkir", ""); err != nil {
		t.Fatalf("AddOperator: %v", err)
	}
	mock.SetVehicleTypes(mockapi.DefaultVehicleTypes())
	server := httptest.NewServer(mock.Router())
	t.Cleanup(server.Close)

	previousClock := newClock
	newClock = func() clock.Clock { return fake }
	t.Cleanup(func() { newClock = previousClock })

	h := &harness{
		t:      t,
		mock:   mock,
		clock:  fake,
		root:   t.TempDir(),
		apiURL: server.URL + mockapi.Prefix,
	}
	h.writeConfig(options)
	return h
}

func (h *harness) writeConfig(options harnessOptions) {
	h.t.Helper()
	environment := options.environment
	if environment == "" {
		environment = "development"
	}
	printerSection := "  kind: none"
	if options.printerAddress != "" {
		printerSection = "  kind: network\n  address: " + options.printerAddress + "\n  timeout: 2s"
	}
	content := fmt.Sprintf(`environment: %s
paths:
  root: %[2]s
  database: %[2]s/parkir.db
  exports: %[2]s/exports
  identity: %[2]s/identity.age
connectivity:
  api_url: %s
  request_timeout: 5s
printer:
%s
export:
  enabled: %t
ticket:
  time_zone: UTC
journal:
  compression: zstd
`, environment, h.root, h.apiURL, printerSection, options.export)
	h.configPath = filepath.Join(h.root, "parkir.yaml")
	if err := os.WriteFile(h.configPath, []byte(content), 0o600); err != nil {
		h.t.Fatalf("writing config: %v", err)
	}
}

// run executes one command line with --config appended and returns
// what it printed.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	previousStdout, previousStderr := cli.Stdout, cli.Stderr
	cli.Stdout, cli.Stderr = &stdout, &stderr
	defer func() { cli.Stdout, cli.Stderr = previousStdout, previousStderr }()

	err := Root().Execute(context.Background(), append(args, "--config", h.configPath), nil)
	return stdout.String(), stderr.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	stdout, stderr, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return stdout
}

func (h *harness) login() {
	h.t.Helper()
	passwordFile := filepath.Join(h.root, "password")
	if err := os.WriteFile(passwordFile, []byte(operatorPassword+"\n"), 0o600); err != nil {
		h.t.Fatalf("writing password file: %v", err)
	}
	h.mustRun("login", "--email", operatorEmail, "--password-file", passwordFile)
}

func categoryOf(t *testing.T, err error) cli.ErrorCategory {
	t.Helper()
	var toolErr *cli.ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("error %v (%T) is not a *cli.ToolError", err, err)
	}
	return toolErr.Category
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	passwordFile := filepath.Join(h.root, "password")
	if err := os.WriteFile(passwordFile, []byte(operatorPassword+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	stdout := h.mustRun("login", "--email", operatorEmail, "--password-file", passwordFile)
	if !strings.Contains(stdout, "Selamat datang, Petugas Parkir") {
		t.Errorf("login output = %q", stdout)
	}

	var who whoamiResult
	if err := json.Unmarshal([]byte(h.mustRun("whoami", "--json")), &who); err != nil {
		t.Fatalf("decoding whoami: %v", err)
	}
	if who.Profile == nil || who.Profile.Email != operatorEmail {
		t.Errorf("whoami profile = %+v", who.Profile)
	}
	if who.Server != h.apiURL {
		t.Errorf("whoami server = %q, want %q", who.Server, h.apiURL)
	}
	wantExpiry := h.clock.Now().Add(time.Hour)
	if who.ExpiresAt == nil || !who.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("whoami expires_at = %v, want %v", who.ExpiresAt, wantExpiry)
	}

	if stdout := h.mustRun("logout"); !strings.Contains(stdout, "Sesi telah diakhiri") {
		t.Errorf("logout output = %q", stdout)
	}
	_, _, err := h.run("whoami")
	if got := categoryOf(t, err); got != cli.CategoryAuth {
		t.Errorf("whoami after logout: category %s, want auth", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	passwordFile := filepath.Join(h.root, "password")
	if err := os.WriteFile(passwordFile, []byte("salah"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := h.run("login", "--email", operatorEmail, "--password-file", passwordFile)
	if got := categoryOf(t, err); got != cli.CategoryAuth {
		t.Errorf("category = %s, want auth", got)
	}
	if _, _, err := h.run("vehicles"); categoryOf(t, err) != cli.CategoryAuth {
		t.Errorf("vehicles after failed login: %v", err)
	}
}

func TestLoginRequiresEmail(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	_, _, err := h.run("login", "--password-file", filepath.Join(h.root, "missing"))
	if got := categoryOf(t, err); got != cli.CategoryValidation {
		t.Errorf("category = %s, want validation", got)
	}
}

func TestCommandsRequireSession(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	for _, args := range [][]string{{"vehicles"}, {"park", "motor"}, {"whoami"}} {
		t.Run(args[0], func(t *testing.T) {
			_, _, err := h.run(args...)
			if got := categoryOf(t, err); got != cli.CategoryAuth {
				t.Errorf("category = %s, want auth", got)
			}
		})
	}
	if len(h.mock.Transactions()) != 0 {
		t.Error("a transaction was created without a session")
	}
}

func TestVehicles(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.login()

	var types []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(h.mustRun("vehicles", "--json")), &types); err != nil {
		t.Fatalf("decoding vehicles: %v", err)
	}
	var names []string
	for _, vehicleType := range types {
		names = append(names, vehicleType.Name)
	}
	if got := strings.Join(names, ","); got != "Motor,Mobil,Truk,Sepeda" {
		t.Errorf("vehicle order = %s", got)
	}

	table := h.mustRun("vehicles")
	for _, want := range []string{"JENIS", "Motor", "Rp 2.000", "Rp 1.000"} {
		if !strings.Contains(table, want) {
			t.Errorf("vehicles table missing %q:\n%s", want, table)
		}
	}
}

func TestParkTextFallback(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.login()

	stdout, stderr, err := h.run("park", "motor", "--plate", "  B 1234 XYZ ")
	var exit *cli.ExitError
	if !errors.As(err, &exit) || exit.Code != ExitTextFallback {
		t.Fatalf("park error = %v, want exit %d", err, ExitTextFallback)
	}
	for _, want := range []string{"Transaksi Berhasil", "Berikut data tiket untuk dicatat", "PKR000001", "B 1234 XYZ"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "Langkah berikutnya") {
		t.Errorf("stderr = %q", stderr)
	}

	transactions := h.mock.Transactions()
	if len(transactions) != 1 {
		t.Fatalf("server has %d transactions, want 1", len(transactions))
	}
	if transactions[0].VehicleTypeID != 1 || transactions[0].LicensePlate != "B 1234 XYZ" {
		t.Errorf("transaction = %+v", transactions[0])
	}

	var entries []struct {
		TicketNumber string `json:"ticket_number"`
		Outcome      string `json:"outcome"`
	}
	if err := json.Unmarshal([]byte(h.mustRun("journal", "--json")), &entries); err != nil {
		t.Fatalf("decoding journal: %v", err)
	}
	if len(entries) != 1 || entries[0].TicketNumber != "PKR000001" || entries[0].Outcome != "text_fallback" {
		t.Errorf("journal = %+v", entries)
	}
}

func TestParkExportsAndReprints(t *testing.T) {
	h := newHarness(t, harnessOptions{export: true})
	h.login()

	stdout := h.mustRun("park", "2")
	if !strings.Contains(stdout, "PDF Dibuat") {
		t.Errorf("park output = %q", stdout)
	}
	exported, err := filepath.Glob(filepath.Join(h.root, "exports", "tiket-PKR000001-*.pdf"))
	if err != nil || len(exported) != 1 {
		t.Fatalf("exported files = %v (%v)", exported, err)
	}
	data, err := os.ReadFile(exported[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("exported file is not a PDF")
	}

	var receipt receiptJSON
	if err := json.Unmarshal([]byte(h.mustRun("reprint", "PKR000001", "--json")), &receipt); err != nil {
		t.Fatalf("decoding reprint: %v", err)
	}
	if receipt.Outcome != "exported" || receipt.VehicleType != "Mobil" {
		t.Errorf("reprint receipt = %+v", receipt)
	}
	if len(h.mock.Transactions()) != 1 {
		t.Errorf("reprint created a transaction")
	}

	_, _, err = h.run("reprint", "PKR999999")
	if got := categoryOf(t, err); got != cli.CategoryNotFound {
		t.Errorf("unknown ticket: category %s, want not_found", got)
	}
}

func TestParkResolvesVehicleType(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.login()

	tests := []struct {
		name     string
		query    string
		category cli.ErrorCategory
	}{
		{name: "unknown id", query: "99", category: cli.CategoryNotFound},
		{name: "unknown name", query: "pesawat", category: cli.CategoryNotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := h.run("park", test.query)
			if got := categoryOf(t, err); got != test.category {
				t.Errorf("category = %s, want %s", got, test.category)
			}
		})
	}
	if len(h.mock.Transactions()) != 0 {
		t.Error("a transaction was created for an unresolved vehicle type")
	}

	_, _, err := h.run("park", "truk", "--plate", strings.Repeat("X", 21))
	if got := categoryOf(t, err); got != cli.CategoryValidation {
		t.Errorf("long plate: category %s, want validation", got)
	}
	if len(h.mock.Transactions()) != 0 {
		t.Error("a transaction was created for an invalid plate")
	}
}

func TestParkServerUnreachable(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.login()
	h.mustRun("settings", "api-url", "http://127.0.0.1:1/api/v1")

	_, _, err := h.run("vehicles")
	if got := categoryOf(t, err); got != cli.CategoryTransient {
		t.Errorf("category = %s, want transient", got)
	}

	h.mustRun("settings", "api-url", "--clear")
	if got := strings.TrimSpace(h.mustRun("settings", "api-url")); got != h.apiURL {
		t.Errorf("api-url after clear = %q, want %q", got, h.apiURL)
	}
	h.mustRun("vehicles")
}

func TestTimeoutFlagBoundsRequests(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.login()

	// Connections queue in the backlog and are never answered.
	silent, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { silent.Close() })
	h.mustRun("settings", "api-url", "http://"+silent.Addr().String()+"/api/v1")

	start := time.Now()
	_, _, err = h.run("vehicles", "--timeout", "200ms")
	if got := categoryOf(t, err); got != cli.CategoryTransient {
		t.Errorf("category = %s, want transient", got)
	}
	if elapsed := time.Since(start); elapsed >= 4*time.Second {
		t.Errorf("request took %s, the configured 5s timeout was not overridden", elapsed)
	}

	_, _, err = h.run("vehicles", "--timeout", "-1s")
	if got := categoryOf(t, err); got != cli.CategoryValidation {
		t.Errorf("negative timeout: category = %s, want validation", got)
	}
}

func TestProductionPinsServerAndSealsToken(t *testing.T) {
	h := newHarness(t, harnessOptions{environment: "production"})
	h.login()

	if _, err := os.Stat(filepath.Join(h.root, "identity.age")); err != nil {
		t.Errorf("identity not created: %v", err)
	}
	h.mustRun("vehicles")

	_, _, err := h.run("settings", "api-url", "http://example.invalid/api")
	if got := categoryOf(t, err); got != cli.CategoryForbidden {
		t.Errorf("category = %s, want forbidden", got)
	}
}

func TestSettingsSetShowPreview(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	h.mustRun("settings", "set", "companyName", "PARKIR UJI", "showTariff", "tidak")

	var view settingsView
	if err := json.Unmarshal([]byte(h.mustRun("settings", "show", "--json")), &view); err != nil {
		t.Fatalf("decoding settings: %v", err)
	}
	if view.Ticket.CompanyName != "PARKIR UJI" || view.Ticket.ShowTariff {
		t.Errorf("settings = %+v", view.Ticket)
	}

	preview := h.mustRun("settings", "preview")
	if !strings.Contains(preview, "PARKIR UJI") {
		t.Errorf("preview missing company name:\n%s", preview)
	}
	if strings.Contains(preview, "Tarif") {
		t.Errorf("preview shows the tariff although it is hidden:\n%s", preview)
	}

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown field", args: []string{"settings", "set", "colour", "red"}},
		{name: "bad toggle", args: []string{"settings", "set", "showTariff", "mungkin"}},
		{name: "odd arguments", args: []string{"settings", "set", "companyName"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := h.run(test.args...)
			if got := categoryOf(t, err); got != cli.CategoryValidation {
				t.Errorf("category = %s, want validation", got)
			}
		})
	}

	h.mustRun("settings", "reset")
	if err := json.Unmarshal([]byte(h.mustRun("settings", "show", "--json")), &view); err != nil {
		t.Fatal(err)
	}
	if view.Ticket.CompanyName != "MD MALL BLORA" {
		t.Errorf("company name after reset = %q", view.Ticket.CompanyName)
	}
}

func TestSettingsImportFromStdin(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	previous := stdin
	stdin = strings.NewReader(`{
		// site copy
		"companyName": "PLAZA UJI",
		"footerMessage3": "Hati-hati di jalan",
	}`)
	t.Cleanup(func() { stdin = previous })

	h.mustRun("settings", "import", "-")

	var view settingsView
	if err := json.Unmarshal([]byte(h.mustRun("settings", "show", "--json")), &view); err != nil {
		t.Fatal(err)
	}
	if view.Ticket.CompanyName != "PLAZA UJI" || view.Ticket.FooterMessage3 != "Hati-hati di jalan" {
		t.Errorf("imported settings = %+v", view.Ticket)
	}
	if view.Ticket.Address != "Jl. Raya Blora No. 123" {
		t.Errorf("omitted field did not keep its default: %q", view.Ticket.Address)
	}
}

type failingScanner struct{ printer.NoopScanner }

func (failingScanner) Scan(context.Context) ([]printer.Device, error) {
	return nil, errors.New("adapter off")
}

func TestPrinterScan(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	if stdout := h.mustRun("printer", "scan"); !strings.Contains(stdout, "Tidak ada printer") {
		t.Errorf("scan output = %q", stdout)
	}

	previous := newScanner
	newScanner = func() printer.Scanner { return failingScanner{} }
	t.Cleanup(func() { newScanner = previous })

	_, _, err := h.run("printer", "scan")
	if got := categoryOf(t, err); got != cli.CategoryTransient {
		t.Errorf("category = %s, want transient", got)
	}
	if !strings.Contains(err.Error(), "Gagal mencari printer.") {
		t.Errorf("error = %q", err)
	}
}

func TestPrinterTest(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := newHarness(t, harnessOptions{})
		_, _, err := h.run("printer", "test")
		if got := categoryOf(t, err); got != cli.CategoryValidation {
			t.Errorf("category = %s, want validation", got)
		}
	})

	t.Run("network printer", func(t *testing.T) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { listener.Close() })
		received := make(chan []byte, 1)
		go func() {
			conn, err := listener.Accept()
			if err != nil {
				received <- nil
				return
			}
			defer conn.Close()
			data, _ := io.ReadAll(conn)
			received <- data
		}()

		h := newHarness(t, harnessOptions{printerAddress: listener.Addr().String()})
		stdout := h.mustRun("printer", "test")
		if !strings.Contains(stdout, "Test print berhasil!") {
			t.Errorf("output = %q", stdout)
		}
		data := testutil.RequireReceive(t, received, 5*time.Second, "waiting for print job")
		if !bytes.Contains(data, []byte("MD MALL BLORA")) {
			t.Errorf("printer received %d bytes without the company name", len(data))
		}
	})
}

func TestUnknownCommandSuggests(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	_, _, err := h.run("prak")
	if got := categoryOf(t, err); got != cli.CategoryValidation {
		t.Errorf("category = %s, want validation", got)
	}
	if !strings.Contains(err.Error(), `"park"`) {
		t.Errorf("error = %q, want a suggestion for park", err)
	}
}
