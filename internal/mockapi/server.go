// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockapi

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/guregu/null.v4"

	"github.com/bureau-foundation/parkir/lib/clock"
	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

// Prefix is the path prefix every route is mounted under.
const Prefix = "/api/v1"

const (
	defaultTokenTTL      = 12 * time.Hour
	defaultLoginAttempts = 5
	defaultLoginWindow   = time.Minute
)

// Role names. Viewers may list vehicle types but not create
// transactions.
const (
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// Config configures a Server.
type Config struct {
	// Secret signs tokens. Empty generates a random one, which
	// invalidates tokens across restarts.
	Secret []byte

	// TokenTTL defaults to 12 hours.
	TokenTTL time.Duration

	// LoginAttempts failed logins per email within LoginWindow are
	// allowed before 429. Defaults: 5 per minute.
	LoginAttempts int
	LoginWindow   time.Duration

	// BcryptCost defaults to bcrypt.DefaultCost. Tests use
	// bcrypt.MinCost.
	BcryptCost int

	Clock  clock.Clock
	Logger *slog.Logger
}

type operator struct {
	profile      parking.Profile
	passwordHash []byte
}

type loginFailures struct {
	count int
	since time.Time
}

// Transaction is a created parking transaction.
type Transaction struct {
	ID            int64     `json:"id"`
	TicketNumber  string    `json:"ticket_number"`
	Reference     string    `json:"reference"`
	VehicleTypeID int64     `json:"vehicle_type_id"`
	LicensePlate  string    `json:"license_plate,omitempty"`
	OperatorID    int64     `json:"operator_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// Server holds the in-memory state.
type Server struct {
	secret        []byte
	tokenTTL      time.Duration
	loginAttempts int
	loginWindow   time.Duration
	bcryptCost    int
	clock         clock.Clock
	logger        *slog.Logger

	mu           sync.Mutex
	operators    map[string]operator
	nextUserID   int64
	vehicleTypes []parking.VehicleType
	transactions []Transaction
	revoked      map[string]time.Time
	failures     map[string]*loginFailures
}

// New creates an empty Server.
func New(config Config) (*Server, error) {
	secret := config.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generating token secret: %w", err)
		}
	}
	s := &Server{
		secret:        secret,
		tokenTTL:      config.TokenTTL,
		loginAttempts: config.LoginAttempts,
		loginWindow:   config.LoginWindow,
		bcryptCost:    config.BcryptCost,
		clock:         config.Clock,
		logger:        config.Logger,
		operators:     map[string]operator{},
		revoked:       map[string]time.Time{},
		failures:      map[string]*loginFailures{},
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = defaultTokenTTL
	}
	if s.loginAttempts <= 0 {
		s.loginAttempts = defaultLoginAttempts
	}
	if s.loginWindow <= 0 {
		s.loginWindow = defaultLoginWindow
	}
	if s.bcryptCost == 0 {
		s.bcryptCost = bcrypt.DefaultCost
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s, nil
}

// AddOperator registers an operator. An empty role means
// RoleOperator. Returns the assigned profile.
func (s *Server) AddOperator(email, password, name, role string) (parking.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return parking.Profile{}, fmt.Errorf("operator email and password are required")
	}
	if role == "" {
		role = RoleOperator
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return parking.Profile{}, fmt.Errorf("hashing password for %s: %w", email, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.operators[email]; exists {
		return parking.Profile{}, fmt.Errorf("operator %s already exists", email)
	}
	s.nextUserID++
	profile := parking.Profile{ID: s.nextUserID, Name: name, Email: email, Role: role}
	s.operators[email] = operator{profile: profile, passwordHash: hash}
	return profile, nil
}

// SetVehicleTypes replaces the catalog. Entries are served as given,
// invalid ones included, so clients can be tested against bad data.
func (s *Server) SetVehicleTypes(types []parking.VehicleType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicleTypes = slices.Clone(types)
}

// Transactions returns a copy of the created transactions.
func (s *Server) Transactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transactions)
}

// DefaultVehicleTypes is the catalog cmd/parkir-mockapi starts with.
func DefaultVehicleTypes() []parking.VehicleType {
	return []parking.VehicleType{
		{ID: 1, Name: "Motor", FlatRate: 2000, PricePerHour: null.IntFrom(1000)},
		{ID: 2, Name: "Mobil", FlatRate: 5000, PricePerHour: null.IntFrom(3000)},
		{ID: 3, Name: "Truk", FlatRate: 10000, Description: null.StringFrom("Kendaraan barang")},
		{ID: 4, Name: "Sepeda", FlatRate: 1000},
	}
}

// checkLoginAllowed reports whether email may attempt a login now.
func (s *Server) checkLoginAllowed(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.failures[email]
	if record == nil {
		return true
	}
	if s.clock.Now().Sub(record.since) >= s.loginWindow {
		delete(s.failures, email)
		return true
	}
	return record.count < s.loginAttempts
}

func (s *Server) recordLoginFailure(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := s.failures[email]
	if record == nil {
		record = &loginFailures{since: s.clock.Now()}
		s.failures[email] = record
	}
	record.count++
}

// authenticate checks email and password against the stored hash.
func (s *Server) authenticate(email, password string) (parking.Profile, bool) {
	s.mu.Lock()
	stored, ok := s.operators[email]
	s.mu.Unlock()
	if !ok {
		return parking.Profile{}, false
	}
	if bcrypt.CompareHashAndPassword(stored.passwordHash, []byte(password)) != nil {
		return parking.Profile{}, false
	}
	s.mu.Lock()
	delete(s.failures, email)
	s.mu.Unlock()
	return stored.profile, true
}

func (s *Server) revoke(tokenID string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = expires
	now := s.clock.Now()
	for id, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, id)
		}
	}
}

func (s *Server) isRevoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, revoked := s.revoked[tokenID]
	return revoked
}

func (s *Server) listVehicleTypes(descending bool) []parking.VehicleType {
	s.mu.Lock()
	types := slices.Clone(s.vehicleTypes)
	s.mu.Unlock()
	slices.SortStableFunc(types, func(a, b parking.VehicleType) int {
		if descending {
			return int(b.ID - a.ID)
		}
		return int(a.ID - b.ID)
	})
	return types
}

func (s *Server) findVehicleType(id int64) (parking.VehicleType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return parking.FindVehicleType(s.vehicleTypes, id)
}

func (s *Server) createTransaction(transaction Transaction) Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	transaction.ID = int64(len(s.transactions) + 1)
	transaction.TicketNumber = fmt.Sprintf("PKR%06d", transaction.ID)
	transaction.CreatedAt = s.clock.Now()
	s.transactions = append(s.transactions, transaction)
	return transaction
}
