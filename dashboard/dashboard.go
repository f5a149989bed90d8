// Package dashboard serves a live view of a running instance pool over a
// websocket: the usual upgrade, ping/pong keepalive, and write-deadline
// pump, fanned out to any number of simultaneous clients instead of
// assuming a single connected browser. Routing uses gorilla/mux rather
// than bare http.HandleFunc, since more than one endpoint (health,
// websocket) needs to coexist.
package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"

	"gridcore/runner"
)

const (
	writeWait        = 1 * time.Second
	maxMessageSize   = 8192
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub broadcasts episode reports from a runner.Pool to any number of
// connected websocket clients.
type Hub struct {
	addr    string
	reports <-chan runner.EpisodeReport
}

// New wires a Hub to the merged episode-report channel produced by
// (*runner.Pool).Run.
func New(addr string, reports <-chan runner.EpisodeReport) *Hub {
	return &Hub{addr: addr, reports: reports}
}

// Serve runs the HTTP/websocket server until ctx is canceled.
func (h *Hub) Serve(ctx context.Context) error {
	// Broadcast needs to know its fan-out width up front, so clients
	// register interest through an intake channel that feeds a
	// continuously-rebuilt set of subscriber channels instead of a single
	// static Broadcast call sized at startup.
	reg := &registry{subscribe: make(chan chan runner.EpisodeReport), done: ctx.Done()}
	go reg.run(h.reports)

	srv := &http.Server{Addr: h.addr, Handler: newRouter(h, reg)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), closeGracePeriod)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func newRouter(h *Hub, reg *registry) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", h.serveHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		h.serveWebsocket(w, r, reg)
	})
	return router
}

func (h *Hub) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// registry fans a single reports channel out to a dynamic set of per-client
// subscriber channels. Unlike channerics.Broadcast, whose fan-out width is
// fixed at construction, a dashboard's client count changes as browsers come
// and go, so the registry rebuilds the broadcast set on every subscription.
type registry struct {
	subscribe chan chan runner.EpisodeReport
	done      <-chan struct{}
}

func (reg *registry) run(source <-chan runner.EpisodeReport) {
	subs := map[chan runner.EpisodeReport]struct{}{}
	for {
		select {
		case <-reg.done:
			return
		case ch := <-reg.subscribe:
			subs[ch] = struct{}{}
		case report, ok := <-source:
			if !ok {
				return
			}
			for ch := range subs {
				select {
				case ch <- report:
				default:
					// Slow client drops this update rather than blocking
					// the whole pool's reporting goroutine.
				}
			}
		}
	}
}

func (reg *registry) join() chan runner.EpisodeReport {
	ch := make(chan runner.EpisodeReport, 16)
	select {
	case reg.subscribe <- ch:
	case <-reg.done:
	}
	return ch
}

func (h *Hub) serveWebsocket(w http.ResponseWriter, r *http.Request, reg *registry) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer closeWebsocket(ws)

	client := reg.join()
	publish(r.Context(), ws, client)
}

func publish(ctx context.Context, ws *websocket.Conn, reports <-chan runner.EpisodeReport) {
	pubCtx, cancelPub := context.WithCancel(ctx)
	defer cancelPub()

	pinger := channerics.NewTicker(pubCtx.Done(), pingPeriod/2)
	lastPong := time.Now()

	pong := make(chan struct{})
	defer close(pong)
	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-pubCtx.Done():
		}
		return nil
	})
	ws.SetReadLimit(maxMessageSize)

	go func() {
		for {
			select {
			case <-pubCtx.Done():
				return
			default:
				if _, _, err := ws.ReadMessage(); err != nil {
					cancelPub()
					return
				}
			}
		}
	}()

	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingPeriod*2 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-pong:
			lastPong = time.Now()
		case report, ok := <-reports:
			if !ok {
				return
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(report); err != nil {
				return
			}
		}
	}
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = ws.Close()
}

// MarshalForLog renders a report as compact JSON with the same field names
// the websocket stream sends to browsers.
func MarshalForLog(r runner.EpisodeReport) string {
	b, err := json.Marshal(r)
	if err != nil {
		return err.Error()
	}
	return string(b)
}
