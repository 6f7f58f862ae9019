package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes 注册 /api/* ，全部是 POST + JSON
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/new_game", h.handleNewGame)
		r.Post("/play", h.handlePlay)
		r.Post("/state", h.handleState)
		r.Post("/ai_move", h.handleAiMove)
		r.Post("/random_move", h.handleRandomMove)
		r.Post("/undo", h.handleUndo)
	})
}

// NewRouter 组装完整路由；webDir 为空时不挂静态页面
func NewRouter(h *Handler, webDir string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h.Routes(r)
	if webDir != "" {
		RegisterStaticRoutes(r, webDir)
	}
	return r
}

// Server 包一层 http.Server，main 里只需要 ListenAndServe
type Server struct {
	srv *http.Server
}

func NewServer(addr string, h http.Handler) *Server {
	return &Server{srv: &http.Server{Addr: addr, Handler: h}}
}

func (s *Server) ListenAndServe() error { return s.srv.ListenAndServe() }

func (s *Server) Close() error { return s.srv.Close() }
