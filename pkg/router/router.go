package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tenk-lab/backend/config"
	"github.com/tenk-lab/backend/pkg/authenticator"
	"github.com/tenk-lab/backend/pkg/errorx"
	"github.com/tenk-lab/backend/pkg/logger"
	"github.com/tenk-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// HandlerFunc is the signature of all domain operations exposed over HTTP.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context; a nil
// returned context keeps the current one.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been determined, for logging and
// metrics purposes.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	db     *gorm.DB
	cfg    config.Configs
	logger logger.Logger

	tokenEngine authenticator.TokenEngine

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		db:          db,
		cfg:         cfg,
		logger:      logger,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
	}
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain derived from the current one.
func (r *Router) Branch() *Router {
	clone := *r
	clone.befores = append([]MiddlewareFunc{}, r.befores...)
	clone.afters = append([]MiddlewareFunc{}, r.afters...)
	clone.closers = append([]CloserFunc{}, r.closers...)
	return &clone
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

// Handle mounts a raw http handler, bypassing the middleware chain. Used for
// operational endpoints like metrics.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.Handle(pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	router *Router, method string, handler HandlerFunc[Request, Response],
) http.Handler {
	befores := router.befores
	afters := router.afters
	closers := router.closers

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithTokenEngine(ctx, router.tokenEngine)
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		var handlerErr error
		defer func() {
			for _, closer := range closers {
				closer(withError(ctx, handlerErr))
			}
		}()

		if req.Method != method {
			handlerErr = errorx.New(errorx.BadRequest, "Not supported method %s", req.Method)
			writeError(w, handlerErr)
			return
		}

		var reqObj Request
		if err := bindRequest(req, method, &reqObj); err != nil {
			handlerErr = errorx.New(errorx.BadRequest, "Cannot bind the request")
			writeError(w, handlerErr)
			return
		}

		for _, before := range befores {
			newCtx, err := before(ctx)
			if err != nil {
				handlerErr = err
				writeError(w, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		resp, err := handler(ctx, &reqObj)
		if err != nil {
			handlerErr = err
			writeError(w, err)
			return
		}

		for _, after := range afters {
			newCtx, err := after(ctx)
			if err != nil {
				handlerErr = err
				writeError(w, err)
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		writeResponse(w, resp)
	})
}

type errorKey struct{}

func withError(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, errorKey{}, err)
}

// Error returns the error the endpoint finished with, if any. Only closers
// can observe it.
func Error(ctx context.Context) error {
	if err, ok := ctx.Value(errorKey{}).(error); ok {
		return err
	}
	return nil
}

func writeError(w http.ResponseWriter, err error) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, mustMarshal(response{Error: &errorBody{Code: int(errx.Code), Message: errx.Message}}))
}

func writeResponse(w http.ResponseWriter, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, mustMarshal(response{Data: resp}))
}
