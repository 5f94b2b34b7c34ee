package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/pkg/encoding"
	"github.com/zeusync/arena/pkg/sequence"
)

// Server exposes the hub over HTTP:
//
//	GET /feed   websocket, one encoded Frame per bus event
//	GET /stats  JSON Stats
type Server struct {
	addr     string
	hub      *Hub
	bus      bus.EventBus
	logger   log.Log
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// ChannelStat is one row of Stats.Channels.
type ChannelStat struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}

// Stats is the /stats document.
type Stats struct {
	Bus           bus.Metrics   `json:"bus"`
	Channels      []ChannelStat `json:"channels"`
	FeedDropped   uint64        `json:"feed_dropped"`
	HandlerErrors uint64        `json:"handler_errors"`
	Clients       int           `json:"clients"`
	Session       any           `json:"session,omitempty"`
}

func NewServer(addr string, hub *Hub, b bus.EventBus, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	s := &Server{
		addr:   addr,
		hub:    hub,
		bus:    b,
		logger: logger.Named("telemetry.http"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /feed", s.handleFeed)
	s.mux.HandleFunc("GET /stats", s.handleStats)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// ListenAndServe serves until ctx ends, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown", log.Error(err))
		}
	}()

	s.logger.Info("telemetry listening", log.String("addr", s.addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-stopped
		return nil
	}
	return errors.Wrap(err, "telemetry server")
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrade failed", log.Error(err))
		return
	}
	c := newClient(conn, s.hub.clientBuffer, s.hub.messageType())
	s.hub.register(c)
	go func() {
		if err := c.writePump(); err != nil {
			s.logger.Debug("write pump stopped", log.String("client", c.id), log.Error(err))
		}
	}()
	c.readPump()
	s.hub.unregister(c)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	st := Stats{
		FeedDropped:   s.hub.Dropped(),
		HandlerErrors: s.hub.HandlerErrors(),
		Clients:       s.hub.Clients(),
		Session:       s.hub.Summary(),
	}
	if s.bus != nil {
		st.Bus = s.bus.GetMetrics()
		byName := sequence.From(s.bus.Channels()).Sort(func(a, b bus.ChannelInfo) bool { return a.Name < b.Name })
		st.Channels = sequence.ToArray(byName, func(ch bus.ChannelInfo) ChannelStat {
			return ChannelStat{Name: string(ch.Name), Subscribers: ch.Subs}
		})
	}
	data, err := encoding.JSON.Marshal(st)
	if err != nil {
		s.logger.Warn("encode stats failed", log.Error(err))
		http.Error(w, "encode stats", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", encoding.JSON.ContentType())
	_, _ = w.Write(data)
}
