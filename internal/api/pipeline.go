package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/log"
	"github.com/felixgeelhaar/rcup/internal/metrics"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// TokenPath is the token-issuance endpoint. A 401 from it means wrong
// credentials, not a dead session.
const TokenPath = "/token"

// Pipeline holds the two interception stages every request passes through.
type Pipeline struct {
	store     *token.Store
	navigator Navigator
	logger    *log.Logger
	metrics   *metrics.Metrics
	userAgent string
}

// NewPipeline composes the stages. A nil navigator never navigates.
func NewPipeline(store *token.Store, navigator Navigator, logger *log.Logger, m *metrics.Metrics, userAgent string) *Pipeline {
	if navigator == nil {
		navigator = nopNavigator{}
	}
	if logger == nil {
		logger = log.Nop()
	}
	if userAgent == "" {
		userAgent = "rcup"
	}
	return &Pipeline{
		store:     store,
		navigator: navigator,
		logger:    logger,
		metrics:   m,
		userAgent: userAgent,
	}
}

// BeforeSend attaches the stored credential, if any, and request metadata.
// A credential that cannot be read is logged and the request goes out
// unauthenticated.
func (p *Pipeline) BeforeSend(req *http.Request) *http.Request {
	credential, err := p.store.Get(req.Context())
	if err != nil {
		p.logger.WithError(err).WarnContext(req.Context(), "could not read credential, sending unauthenticated")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	id := log.RequestID(req.Context())
	if id == "" {
		id = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", id)
	req.Header.Set("User-Agent", p.userAgent)
	return req
}

// OnError reacts to a failed request to path and returns err unchanged.
// A 401 from anywhere but TokenPath removes the credential and sends the
// user to the login view, unless they are already there.
func (p *Pipeline) OnError(ctx context.Context, path string, err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		p.metrics.RecordError(string(rerrors.CodeOf(err)), "api")
		p.logger.WithError(err).ErrorContext(ctx, "request failed without a response", "path", path)
		return err
	}

	p.metrics.RecordError(string(apiErr.ErrorCode()), "api")

	if apiErr.StatusCode == http.StatusUnauthorized && path != TokenPath {
		if rmErr := p.store.Remove(ctx); rmErr != nil {
			p.logger.WithError(rmErr).ErrorContext(ctx, "failed to remove rejected credential")
		}
		p.metrics.RecordSessionExpired()
		if p.navigator.Current() != ViewLogin {
			p.navigator.Navigate(ViewLogin)
		}
		p.logger.WarnContext(ctx, "session rejected by server, credential removed", "path", path)
		return err
	}

	p.logger.WarnContext(ctx, "API error",
		"method", apiErr.Method,
		"path", path,
		"status", apiErr.StatusCode,
		"detail", apiErr.Detail,
	)
	return err
}
