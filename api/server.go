// Package api exposes a running interpreter over HTTP and WebSocket, so a
// browser-based front end can drive the same machine the TUI debugger
// attaches to.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"riscv64emu/service"
)

// Server is the HTTP+WebSocket front end for a single DebuggerService.
type Server struct {
	svc         *service.DebuggerService
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int

	lastExecState service.ExecutionState
}

// NewServer wires a server around an already-constructed debugger service
// and subscribes it to the service's state-change notifications.
func NewServer(svc *service.DebuggerService, port int) *Server {
	s := &Server{
		svc:         svc,
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
		port:        port,
	}

	svc.SetStateChangedCallback(s.broadcastState)
	svc.CPU().Output = service.NewBroadcastWriter(s.broadcaster.BroadcastOutput)
	s.registerRoutes()
	return s
}

func (s *Server) broadcastState() {
	st := s.svc.GetRegisterState()
	state := s.svc.GetExecutionState()
	ev := StateEvent{
		State:  string(state),
		PC:     st.PC,
		Cycle:  st.Cycle,
		Halted: st.Halted,
	}
	var faultMsg string
	if f := s.svc.LastFault(); f != nil {
		faultMsg = f.Error()
		ev.LastFault = faultMsg
	}
	s.broadcaster.BroadcastState(ev)

	if state != service.StateRunning && state != s.lastExecState {
		s.broadcaster.BroadcastExecution(ExecutionEvent{State: string(state), Reason: faultMsg})
	}
	s.lastExecState = state
}

// Handler returns the HTTP handler with CORS and debug-logging middleware
// applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(debugMiddleware(s.mux))
}

// debugMiddleware logs each request's method and path when RV64EMU_DEBUG
// is set; it is a no-op otherwise since apiLog writes to io.Discard.
func debugMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		debugLog("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)

	s.mux.HandleFunc("/api/v1/registers", s.handleRegisters)
	s.mux.HandleFunc("/api/v1/memory", s.handleMemory)
	s.mux.HandleFunc("/api/v1/disassembly", s.handleDisassembly)

	s.mux.HandleFunc("/api/v1/step", s.handleStep)
	s.mux.HandleFunc("/api/v1/continue", s.handleContinue)
	s.mux.HandleFunc("/api/v1/reset", s.handleReset)

	s.mux.HandleFunc("/api/v1/breakpoints", s.handleBreakpoints)
	s.mux.HandleFunc("/api/v1/breakpoints/", s.handleBreakpointByID)
}

// Start runs the HTTP server until it errors or is shut down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("api server listening on http://127.0.0.1:%d", s.port)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and disconnects WebSocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.broadcaster != nil {
		s.broadcaster.Close()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "file://") {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode json response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func readJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1024*1024))
	return decoder.Decode(v)
}

func parseUint64Query(r *http.Request, key string) (uint64, error) {
	raw := r.URL.Query().Get(key)
	return strconv.ParseUint(strings.TrimPrefix(raw, "0x"), hexOrDec(raw), 64)
}

func hexOrDec(raw string) int {
	if strings.HasPrefix(raw, "0x") {
		return 16
	}
	return 10
}
