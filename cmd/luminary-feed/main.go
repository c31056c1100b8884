// Command luminary-feed serves live sun and moon positions for a fixed
// observer over HTTP and WebSocket.
//
// Endpoints:
//
//	GET /health  - liveness check
//	GET /status  - current ephemeris snapshot as JSON
//	GET /ws      - WebSocket stream of snapshots at the broadcast interval
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"github.com/thurmanmarka/luminary"
)

// feedServer streams ephemeris snapshots to connected WebSocket clients.
type feedServer struct {
	coords    luminary.Coordinates
	loc       *time.Location
	interval  time.Duration
	server    *http.Server
	startTime time.Time
	upgrader  websocket.Upgrader
	clients   sync.Map
	broadcast chan []byte
	done      chan struct{}
	logger    *log.Logger
}

// snapshot is one feed message: positions now, plus the day's event times.
type snapshot struct {
	Type         string                    `json:"type"`
	Timestamp    string                    `json:"timestamp"`
	Latitude     float64                   `json:"latitude"`
	Longitude    float64                   `json:"longitude"`
	Sun          luminary.SunPosition      `json:"sun"`
	Moon         luminary.MoonPosition     `json:"moon"`
	SunTimes     luminary.SunTimes         `json:"sun_times"`
	MoonTimes    luminary.MoonTimes        `json:"moon_times"`
	Illumination luminary.MoonIllumination `json:"illumination"`
	Phase        string                    `json:"phase"`
}

func newFeedServer(coords luminary.Coordinates, loc *time.Location, port int, interval time.Duration, logger *log.Logger) *feedServer {
	mux := http.NewServeMux()
	fs := &feedServer{
		coords:    coords,
		loc:       loc,
		interval:  interval,
		startTime: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		broadcast: make(chan []byte, 256),
		done:      make(chan struct{}),
		logger:    logger,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	mux.HandleFunc("/health", fs.healthHandler)
	mux.HandleFunc("/status", fs.statusHandler)
	mux.HandleFunc("/ws", fs.wsHandler)

	return fs
}

func (fs *feedServer) start() {
	go fs.handleBroadcasts()
	go fs.broadcastSnapshots()

	go func() {
		if err := fs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fs.logger.Printf("server error: %v", err)
		}
	}()
}

func (fs *feedServer) stop(ctx context.Context) error {
	close(fs.done)

	fs.clients.Range(func(key, value any) bool {
		if conn, ok := key.(*websocket.Conn); ok {
			conn.Close()
		}
		return true
	})

	return fs.server.Shutdown(ctx)
}

func (fs *feedServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(fs.startTime).Round(time.Second).String(),
		"clients":   fs.clientCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (fs *feedServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(fs.buildSnapshot()); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (fs *feedServer) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := fs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		fs.logger.Printf("WebSocket upgrade error: %v", err)
		return
	}

	// Send the initial snapshot before registering the connection for
	// broadcasts: the broadcast goroutine writes to every registered
	// connection, and gorilla/websocket allows at most one concurrent
	// writer per connection.
	if err := conn.WriteJSON(fs.buildSnapshot()); err != nil {
		fs.logger.Printf("failed to send initial snapshot: %v", err)
		conn.Close()
		return
	}

	fs.clients.Store(conn, true)
	fs.logger.Printf("client connected (total: %d)", fs.clientCount())

	defer func() {
		fs.clients.Delete(conn)
		conn.Close()
		fs.logger.Printf("client disconnected (total: %d)", fs.clientCount())
	}()

	// Read messages from client (ping/pong, close).
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fs.logger.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (fs *feedServer) handleBroadcasts() {
	for {
		select {
		case message := <-fs.broadcast:
			fs.clients.Range(func(key, value any) bool {
				conn, ok := key.(*websocket.Conn)
				if !ok {
					return true
				}

				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					fs.logger.Printf("WebSocket write error: %v", err)
					conn.Close()
					fs.clients.Delete(conn)
				}
				return true
			})
		case <-fs.done:
			return
		}
	}
}

func (fs *feedServer) broadcastSnapshots() {
	ticker := time.NewTicker(fs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if fs.clientCount() == 0 {
				continue
			}
			message, err := json.Marshal(fs.buildSnapshot())
			if err != nil {
				fs.logger.Printf("failed to marshal snapshot: %v", err)
				continue
			}
			fs.broadcast <- message
		case <-fs.done:
			return
		}
	}
}

func (fs *feedServer) clientCount() int {
	n := 0
	fs.clients.Range(func(key, value any) bool {
		n++
		return true
	})
	return n
}

func (fs *feedServer) buildSnapshot() snapshot {
	now := time.Now().In(fs.loc)
	offset := luminary.LocationOffset(fs.loc)
	mi := luminary.MoonIlluminationAt(now)

	return snapshot{
		Type:         "ephemeris",
		Timestamp:    now.Format(time.RFC3339),
		Latitude:     fs.coords.Lat,
		Longitude:    fs.coords.Lon,
		Sun:          luminary.SunPositionAt(now, fs.coords),
		Moon:         luminary.MoonPositionAt(now, fs.coords),
		SunTimes:     luminary.SunTimesFor(now, fs.coords, offset),
		MoonTimes:    luminary.MoonTimesFor(now, fs.coords, offset),
		Illumination: mi,
		Phase:        mi.PhaseName(),
	}
}

func main() {
	logger := log.New(os.Stdout, "[FEED] ", log.LstdFlags)

	// No .env file is fine; plain environment variables still apply.
	_ = godotenv.Load()

	var (
		lat      = flag.Float64("lat", envFloat("LUMINARY_LAT", 0), "latitude in degrees (north positive)")
		lon      = flag.Float64("lon", envFloat("LUMINARY_LON", 0), "longitude in degrees (east positive, west negative)")
		tzName   = flag.String("tz", envString("LUMINARY_TZ", "UTC"), "IANA time zone name (e.g. America/Phoenix)")
		port     = flag.Int("port", 8090, "HTTP listen port")
		interval = flag.Duration("interval", 5*time.Second, "broadcast interval")
	)
	flag.Parse()

	coords, err := luminary.NewCoordinates(*lat, *lon)
	if err != nil {
		logger.Fatalf("invalid location: %v", err)
	}
	if *lat == 0 && *lon == 0 {
		logger.Println("warning: lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		logger.Fatalf("invalid time zone %q: %v", *tzName, err)
	}

	fs := newFeedServer(coords, loc, *port, *interval, logger)
	fs.start()
	logger.Printf("serving lat=%.4f lon=%.4f on :%d (interval %v)", *lat, *lon, *port, *interval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fs.stop(shutdownCtx); err != nil {
		logger.Printf("shutdown error: %v", err)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("invalid %s=%q: %v", key, v, err)
	}
	return f
}
