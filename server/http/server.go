package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/w-h-a/validated-content/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type httpServer struct {
	options server.Options
	handler http.Handler
	srv     *http.Server
	mtx     sync.Mutex
}

func (s *httpServer) Options() server.Options {
	return s.options
}

func (s *httpServer) Start() error {
	s.mtx.Lock()
	s.srv = &http.Server{
		Addr:              s.options.Address,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.srv
	s.mtx.Unlock()

	slog.InfoContext(s.options.Context, "starting http server", "name", s.options.Name, "address", s.options.Address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *httpServer) Stop(ctx context.Context) error {
	s.mtx.Lock()
	srv := s.srv
	s.mtx.Unlock()

	if srv == nil {
		return nil
	}

	slog.InfoContext(ctx, "stopping http server", "name", s.options.Name)

	return srv.Shutdown(ctx)
}

// Handler returns the fully wrapped handler the server serves.
func (s *httpServer) Handler() http.Handler {
	return s.handler
}

func NewServer(opts ...server.Option) *httpServer {
	options := server.NewOptions(opts...)

	var h http.Handler = mux.NewRouter()
	if handler, ok := HandlerFrom(options.Context); ok {
		h = handler
	}

	// first middleware is outermost
	if ms, ok := MiddlewareFrom(options.Context); ok {
		for i := len(ms) - 1; i >= 0; i-- {
			h = ms[i](h)
		}
	}

	h = otelhttp.NewHandler(h, options.Name)

	return &httpServer{
		options: options,
		handler: h,
	}
}
