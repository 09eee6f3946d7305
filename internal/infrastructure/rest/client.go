// Package rest implementa el cliente HTTP del backend LIPMS.
//
// Todas las peticiones llevan el bearer token vigente (si existe) y un 401
// dispara el hook OnUnauthorized, que el wiring conecta con la limpieza de
// la sesión persistida.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/lipms-client/internal/domain"
	"github.com/jhoicas/lipms-client/pkg/config"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

// TokenSource devuelve el bearer token vigente, o cadena vacía si no hay sesión.
type TokenSource func() string

// APIError error de la API con el detalle que reporta FastAPI.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("lipms api: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("lipms api: HTTP %d: %s", e.StatusCode, e.Detail)
}

// errorBody cuerpo de error de FastAPI ({"detail": "..."}).
type errorBody struct {
	Detail string `json:"detail"`
}

// Client cliente REST del backend LIPMS.
type Client struct {
	http           *resty.Client
	tokens         TokenSource
	onUnauthorized func()
	log            *logger.Logger
}

// NewClient construye el cliente. tokens puede ser nil (sin autenticación).
func NewClient(cfg config.APIConfig, tokens TokenSource, log *logger.Logger) *Client {
	c := &Client{
		tokens: tokens,
		log:    log,
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout()).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if c.tokens != nil {
				if tok := c.tokens(); tok != "" {
					req.SetAuthScheme("Bearer")
					req.SetAuthToken(tok)
				}
			}
			return nil
		})

	return c
}

// SetOnUnauthorized registra el hook invocado ante cualquier respuesta 401.
func (c *Client) SetOnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, result any) error {
	req := c.http.R().SetContext(ctx).SetResult(result).SetError(&errorBody{})
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return c.check(resp, err)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(result).SetError(&errorBody{}).Post(path)
	return c.check(resp, err)
}

func (c *Client) put(ctx context.Context, path string, body, result any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(result).SetError(&errorBody{}).Put(path)
	return c.check(resp, err)
}

func (c *Client) patch(ctx context.Context, path string, body, result any) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).SetResult(result).SetError(&errorBody{}).Patch(path)
	return c.check(resp, err)
}

func (c *Client) delete(ctx context.Context, path string) error {
	resp, err := c.http.R().SetContext(ctx).SetError(&errorBody{}).Delete(path)
	return c.check(resp, err)
}

// check traduce la respuesta a errores de dominio. 401 dispara el hook.
func (c *Client) check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("lipms request: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	detail := ""
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		detail = body.Detail
	}
	apiErr := &APIError{StatusCode: resp.StatusCode(), Detail: detail}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, apiErr.Error())
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Error())
	default:
		return apiErr
	}
}
