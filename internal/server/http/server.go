package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/proger/faeton/internal/runtime"
	"github.com/proger/faeton/internal/server/http/controllers"
	eventsvc "github.com/proger/faeton/internal/services/events"
	logpkg "github.com/proger/faeton/pkg/log"
)

// Server hosts the broker's HTTP surface.
type Server struct {
	rt  *runtime.Runtime
	svc *eventsvc.Service
	srv *http.Server
	lis net.Listener
}

// New builds a Server around the events service.
func New(rt *runtime.Runtime, svc *eventsvc.Service, logger logpkg.Logger) *Server {
	mux := http.NewServeMux()
	controllers.NewControllerRegistry(rt, svc, logger).RegisterAllRoutes(mux)
	return &Server{rt: rt, svc: svc, srv: &http.Server{Handler: cors(mux)}}
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Addr returns the bound address once listening.
func (s *Server) Addr() string {
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

// Close force-closes the listener.
func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
