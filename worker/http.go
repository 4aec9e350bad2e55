package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tfkr-ae/ramjet/domain"
)

var _ domain.WorkerRegistrar = (*HTTP)(nil)

// HTTP registers scripts with a remote worker host by POSTing to <baseURL>/registrations.
type HTTP struct {
	client *resty.Client
}

type registerRequest struct {
	ScriptURL string `json:"script_url"`
}

type registerError struct {
	Error string `json:"error"`
}

// NewHTTP creates a registrar for the worker host at baseURL, then applies options.
func NewHTTP(baseURL string, options ...func(*HTTP) error) (*HTTP, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("worker host cannot be empty")
	}

	client := resty.New()
	client.
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ramjet")

	registrar := &HTTP{client: client}
	for _, option := range options {
		if err := option(registrar); err != nil {
			return nil, err
		}
	}
	return registrar, nil
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) func(*HTTP) error {
	return func(h *HTTP) error {
		h.client.SetTimeout(timeout)
		return nil
	}
}

// WithHeader adds a header to every registration request.
func WithHeader(key, value string) func(*HTTP) error {
	return func(h *HTTP) error {
		h.client.SetHeader(key, value)
		return nil
	}
}

// Register implements domain.WorkerRegistrar. Requests are not retried.
func (h *HTTP) Register(ctx context.Context, scriptURL string) (*domain.Registration, error) {
	var registration domain.Registration
	var failure registerError

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(registerRequest{ScriptURL: scriptURL}).
		SetResult(&registration).
		SetError(&failure).
		Post("/registrations")
	if err != nil {
		return nil, fmt.Errorf("registering %s : %w", scriptURL, err)
	}

	if resp.IsError() {
		if failure.Error != "" {
			return nil, fmt.Errorf("registering %s : %s : %s", scriptURL, resp.Status(), failure.Error)
		}
		return nil, fmt.Errorf("registering %s : %s", scriptURL, resp.Status())
	}
	return &registration, nil
}
