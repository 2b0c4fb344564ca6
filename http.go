package accounts

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Middleware is what route registration needs from the HTTP authenticator
type Middleware interface {
	ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc
}

// RouteAuthenticator adapts the Authenticator to the routing layer: it
// extracts the bearer credential, resolves the principal, and maps the
// failure taxonomy onto HTTP statuses. Resolution failures are a uniform 401
// regardless of which stage rejected; storage faults are 503 so clients do
// not mistake infrastructure failure for bad credentials.
type RouteAuthenticator struct {
	auth             Authenticator
	cfg              Config
	Logger           Logger
	AuthErrorHandler func(c router.Context, err error) error
	ErrorHandler     func(c router.Context, err error) error
}

func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:    cfg,
		auth:   auther,
		Logger: defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler
	a.AuthErrorHandler = a.defaultAuthErrHandler

	return a, nil
}

// ProtectedRoute resolves the bearer token before the handler runs. On
// success the principal is stored under the configured context key and in the
// request's standard context; on failure the request never reaches a guard or
// handler.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = a.AuthErrorHandler
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw, err := a.tokenFromHeader(c)
			if err != nil {
				return errorHandler(c, err)
			}

			identity, err := a.auth.ResolvePrincipal(c.Context(), raw)
			if err != nil {
				if IsStorageUnavailable(err) {
					return a.ErrorHandler(c, err)
				}
				return errorHandler(c, err)
			}

			c.Locals(a.cfg.GetContextKey(), identity)
			c.SetContext(WithIdentityContext(c.Context(), identity))

			return next(c)
		}
	}
}

// Login authenticates the payload and returns the minted token
func (a *RouteAuthenticator) Login(ctx router.Context, payload LoginPayload) (string, error) {
	token, err := a.auth.Login(ctx.Context(), payload.GetIdentifier(), payload.GetPassword())
	if err != nil {
		a.Logger.Info("Login error: %s", err)
		return "", err
	}
	return token, nil
}

func (a *RouteAuthenticator) tokenFromHeader(c router.Context) (string, error) {
	header := c.GetString(router.HeaderAuthorization, "")
	scheme := a.cfg.GetAuthScheme()

	l := len(scheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
		return strings.TrimSpace(header[l:]), nil
	}

	return "", ErrTokenMalformed
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "invalid authentication token").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info(
		"Authentication error",
		"text_code", richErr.TextCode,
		"path", c.OriginalURL(),
	)

	// every resolution failure collapses into the same response body; the
	// per-stage text code stays in the log line above
	return c.JSON(router.StatusUnauthorized, map[string]any{
		"error":     "could not validate credentials",
		"text_code": TextCodeUnauthenticated,
	})
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "an unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Request error handler",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	switch richErr.Category {
	case errors.CategoryAuth:
		return a.AuthErrorHandler(c, richErr)
	case errors.CategoryAuthz:
		return c.JSON(router.StatusForbidden, map[string]any{
			"error":     richErr.Message,
			"text_code": richErr.TextCode,
		})
	default:
		return c.JSON(httpStatusFor(richErr), map[string]any{
			"error":     richErr.Message,
			"text_code": richErr.TextCode,
		})
	}
}

func httpStatusFor(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth:
		return router.StatusUnauthorized
	case errors.CategoryAuthz:
		return router.StatusForbidden
	case errors.CategoryNotFound:
		return router.StatusNotFound
	case errors.CategoryConflict:
		return router.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return router.StatusBadRequest
	case errors.CategoryOperation:
		return router.StatusServiceUnavailable
	default:
		if richErr.Code > 0 {
			return richErr.Code
		}
		return router.StatusInternalServerError
	}
}

var _ Middleware = (*RouteAuthenticator)(nil)
