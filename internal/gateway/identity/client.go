package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ecommerce/internal/domain"
)

const defaultTimeout = 3 * time.Second

// Client проверяет учётные данные запроса у внешнего сервиса аутентификации
// через его endpoint /me и возвращает идентификатор действующего пользователя.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Entry
}

// NewClient создаёт клиент сервиса аутентификации.
func NewClient(baseURL string, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.New().WithField("component", "identity-client")
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

type mePayload struct {
	ID string `json:"id"`
}

// Verify возвращает ID пользователя или ErrUnauthenticated, если сервис
// аутентификации не подтвердил учётные данные.
func (c *Client) Verify(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", domain.ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return "", fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", authHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("identity verification call failed")
		return "", domain.ErrUnauthenticated
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", domain.ErrUnauthenticated
	}

	var payload mePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.WithError(err).Warn("decode identity payload failed")
		return "", domain.ErrUnauthenticated
	}
	if payload.ID == "" {
		return "", domain.ErrUnauthenticated
	}

	return payload.ID, nil
}

// StaticVerifier трактует весь bearer-токен как идентификатор пользователя.
// Используется в локальной разработке, когда сервис аутентификации не поднят.
type StaticVerifier struct{}

// Verify возвращает токен как ID пользователя.
func (StaticVerifier) Verify(_ context.Context, authHeader string) (string, error) {
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || authHeader[:len(prefix)] != prefix {
		return "", domain.ErrUnauthenticated
	}
	return authHeader[len(prefix):], nil
}

var (
	_ domain.IdentityVerifier = (*Client)(nil)
	_ domain.IdentityVerifier = StaticVerifier{}
)
