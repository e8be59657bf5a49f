// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bureau-foundation/parkir/lib/schema/parking"
)

const (
	claimsKey    = "claims"
	requestIDKey = "request_id"
)

// envelope is the body shape of every response.
type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  parking.Profile `json:"user"`
}

// Router builds the gin engine serving the API under Prefix.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())

	api := router.Group(Prefix)
	api.POST("/login", s.handleLogin)

	authorized := api.Group("", s.requireToken())
	authorized.POST("/logout", s.handleLogout)
	authorized.GET("/vehicle-types", s.handleVehicleTypes)
	authorized.POST("/parking", s.requireRole(RoleOperator), s.handleCreateParking)

	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Endpoint tidak ditemukan", nil)
	})
	return router
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func fail(c *gin.Context, status int, message string, fields map[string][]string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message, Errors: fields})
}

func fieldErrors(problems map[string]string) map[string][]string {
	fields := make(map[string][]string, len(problems))
	for field, message := range problems {
		fields[field] = []string{message}
	}
	return fields
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", requestID,
		)
	}
}

func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, raw, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			fail(c, http.StatusUnauthorized, "Token tidak ditemukan", nil)
			return
		}
		claims, err := s.parseToken(strings.TrimSpace(raw))
		if err != nil {
			s.logger.Info("token rejected", "error", err, "request_id", c.GetString(requestIDKey))
			fail(c, http.StatusUnauthorized, "Token tidak valid atau sudah kedaluwarsa", nil)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (s *Server) requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := c.MustGet(claimsKey).(*Claims)
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		fail(c, http.StatusForbidden, "Anda tidak memiliki akses", nil)
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var credentials parking.Credentials
	if err := c.ShouldBindJSON(&credentials); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Format permintaan tidak valid", nil)
		return
	}
	if problems := credentials.Validate(); problems != nil {
		fail(c, http.StatusUnprocessableEntity, "Data login tidak valid", fieldErrors(problems))
		return
	}

	email := strings.ToLower(strings.TrimSpace(credentials.Email))
	if !s.checkLoginAllowed(email) {
		fail(c, http.StatusTooManyRequests, "Terlalu banyak percobaan login", nil)
		return
	}
	profile, ok := s.authenticate(email, credentials.Password)
	if !ok {
		s.recordLoginFailure(email)
		fail(c, http.StatusUnauthorized, "Email atau password salah", nil)
		return
	}

	token, err := s.issueToken(profile)
	if err != nil {
		s.logger.Error("issuing token failed", "error", err)
		fail(c, http.StatusInternalServerError, "Gagal membuat token", nil)
		return
	}
	respond(c, http.StatusOK, loginResponse{Token: token, User: profile}, "Login berhasil")
}

func (s *Server) handleLogout(c *gin.Context) {
	claims := c.MustGet(claimsKey).(*Claims)
	s.revoke(claims.ID, claims.ExpiresAt.Time)
	respond(c, http.StatusOK, nil, "Logout berhasil")
}

func (s *Server) handleVehicleTypes(c *gin.Context) {
	orderBy := c.DefaultQuery("order_by", "id")
	direction := c.DefaultQuery("order_direction", "asc")
	if orderBy != "id" || (direction != "asc" && direction != "desc") {
		fail(c, http.StatusUnprocessableEntity, "Parameter urutan tidak valid", map[string][]string{
			"order_by": {"Hanya pengurutan berdasarkan id yang didukung."},
		})
		return
	}
	respond(c, http.StatusOK, s.listVehicleTypes(direction == "desc"), "")
}

func (s *Server) handleCreateParking(c *gin.Context) {
	var request parking.ParkingTransaction
	if err := c.ShouldBindJSON(&request); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Format permintaan tidak valid", nil)
		return
	}
	request = parking.NewParkingTransaction(request.VehicleTypeID, request.LicensePlate)
	if problems := request.Validate(); problems != nil {
		fail(c, http.StatusUnprocessableEntity, "Data transaksi tidak valid", fieldErrors(problems))
		return
	}
	if _, ok := s.findVehicleType(request.VehicleTypeID); !ok {
		fail(c, http.StatusUnprocessableEntity, "Data transaksi tidak valid", map[string][]string{
			"vehicle_type_id": {"Jenis kendaraan tidak ditemukan."},
		})
		return
	}

	claims := c.MustGet(claimsKey).(*Claims)
	operatorID, _ := strconv.ParseInt(claims.Subject, 10, 64)
	created := s.createTransaction(Transaction{
		Reference:     uuid.NewString(),
		VehicleTypeID: request.VehicleTypeID,
		LicensePlate:  request.LicensePlate,
		OperatorID:    operatorID,
	})
	s.logger.Info("transaction created", "id", created.ID, "ticket", created.TicketNumber, "operator_id", operatorID)
	respond(c, http.StatusCreated, created, "Transaksi berhasil dibuat")
}
