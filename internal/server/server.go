// Package server feeds sorting runs to browser renderers over websockets.
// Every connection owns its own session.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/convox/logger"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/san-kum/sortviz/internal/algorithms"
	"github.com/san-kum/sortviz/internal/config"
)

var ErrUnknownPreset = errors.New("server: unknown preset")

type Server struct {
	router   *mux.Router
	upgrader websocket.Upgrader
	log      *logger.Logger
	conns    ConnOptions
}

type Option func(*Server)

func WithLogger(l *logger.Logger) Option { return func(s *Server) { s.log = l } }

// WithConnOptions sets what each new connection's session starts from.
func WithConnOptions(o ConnOptions) Option { return func(s *Server) { s.conns = o } }

func New(opts ...Option) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		log:      logger.NewWriter("ns=sortviz cn=server", os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/algorithms", s.api("algorithm.list", s.algorithmList)).Methods("GET")
	router.HandleFunc("/api/algorithms/{algorithm}/presets", s.api("preset.list", s.presetList)).Methods("GET")
	router.HandleFunc("/api/algorithms/{algorithm}/presets/{preset}", s.api("preset.get", s.presetGet)).Methods("GET")

	// websockets
	router.HandleFunc("/ws", s.socket).Methods("GET")

	return router
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s}
	log := s.log.At("listen").Namespace("addr=%s", addr)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Logf("state=listening")

	select {
	case err := <-errc:
		log.Error(err)
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

type handlerFunc func(rw http.ResponseWriter, r *http.Request) error

func (s *Server) api(at string, handler handlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		log := s.log.At(at).Start()
		if err := handler(rw, r); err != nil {
			code := http.StatusInternalServerError
			if errors.Is(err, algorithms.ErrUnknownAlgorithm) || errors.Is(err, ErrUnknownPreset) {
				code = http.StatusNotFound
			}
			http.Error(rw, err.Error(), code)
			log.Error(err)
			return
		}
		log.Success()
	}
}

func renderJSON(rw http.ResponseWriter, object any) error {
	data, err := json.MarshalIndent(object, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	rw.Header().Set("Content-Type", "application/json")
	_, err = rw.Write(data)
	return err
}

func (s *Server) algorithmList(rw http.ResponseWriter, r *http.Request) error {
	return renderJSON(rw, algorithms.Names())
}

func (s *Server) presetList(rw http.ResponseWriter, r *http.Request) error {
	name := mux.Vars(r)["algorithm"]
	if _, err := algorithms.Lookup(name); err != nil {
		return err
	}
	return renderJSON(rw, config.ListPresets(name))
}

func (s *Server) presetGet(rw http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	preset := config.GetPreset(vars["algorithm"], vars["preset"])
	if preset == nil {
		return ErrUnknownPreset
	}
	return renderJSON(rw, preset.Values)
}

func (s *Server) socket(rw http.ResponseWriter, r *http.Request) {
	log := s.log.At("socket").Start()

	ws, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		log.Error(err)
		return
	}
	log.Logf("step=upgrade remote=%q", r.RemoteAddr)

	c := newConn(ws, s.conns, s.log)
	err = c.serve(r.Context())
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		log.Error(err)
		return
	}
	log.Success()
}
