package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"warbler/internal/config"
	"warbler/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWSTicketFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", mock.Anything, uint(7)).
		Return(&models.User{ID: 7, Username: "warbler"}, nil)

	s := &Server{
		config:   &config.Config{JWTSecret: "test_secret"},
		redis:    rdb,
		userRepo: userRepo,
	}

	app := fiber.New()
	app.Post("/ws/ticket", authAs(7), s.IssueWSTicket)
	app.Get("/private", s.AuthRequired(), whoAmI)

	issueReq := httptest.NewRequest(http.MethodPost, "/ws/ticket", nil)
	issueResp, err := app.Test(issueReq)
	require.NoError(t, err)
	defer func() { _ = issueResp.Body.Close() }()
	require.Equal(t, http.StatusOK, issueResp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(issueResp.Body).Decode(&out))
	ticket := out["ticket"]
	require.NotEmpty(t, ticket)

	// The ticket authenticates exactly once.
	req := httptest.NewRequest(http.MethodGet, "/private?ticket="+ticket, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var who map[string]uint
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&who))
	assert.Equal(t, uint(7), who["user_id"])

	// Second redemption falls through to the other credential checks and fails.
	again := httptest.NewRequest(http.MethodGet, "/private?ticket="+ticket, nil)
	resp2, err := app.Test(again)
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
}

func TestWSTicketUnavailableWithoutRedis(t *testing.T) {
	s := &Server{config: &config.Config{JWTSecret: "test_secret"}}

	app := fiber.New()
	app.Post("/ws/ticket", authAs(7), s.IssueWSTicket)

	req := httptest.NewRequest(http.MethodPost, "/ws/ticket", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
