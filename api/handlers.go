package api

import (
	"net/http"
	"strconv"
)

// handleRegisters handles GET /api/v1/registers.
func (s *Server) handleRegisters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, toRegistersResponse(s.svc.GetRegisterState()))
}

// handleMemory handles GET /api/v1/memory?address=0x...&length=...
func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	addr, err := parseUint64Query(r, "address")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}
	length, err := strconv.Atoi(r.URL.Query().Get("length"))
	if err != nil || length <= 0 {
		writeError(w, http.StatusBadRequest, "invalid length")
		return
	}

	region, err := s.svc.GetMemory(addr, length)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, MemoryResponse{Address: region.Address, Data: region.Data})
}

// handleDisassembly handles GET /api/v1/disassembly?address=0x...&count=...
func (s *Server) handleDisassembly(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	addr, err := parseUint64Query(r, "address")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count <= 0 {
		writeError(w, http.StatusBadRequest, "invalid count")
		return
	}

	lines, err := s.svc.GetDisassembly(addr, count)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, DisassemblyResponse{Lines: lines})
}

// handleStep handles POST /api/v1/step.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.svc.Step(); err != nil {
		writeError(w, http.StatusOK, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toRegistersResponse(s.svc.GetRegisterState()))
}

// handleContinue handles POST /api/v1/continue, running until halt, fault,
// breakpoint, or client disconnect.
func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	err := s.svc.Continue(r.Context())
	resp := StatusResponse{State: string(s.svc.GetExecutionState())}
	if err != nil && r.Context().Err() == nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReset handles POST /api/v1/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.svc.Reset()
	writeJSON(w, http.StatusOK, toRegistersResponse(s.svc.GetRegisterState()))
}

// handleBreakpoints handles GET/POST /api/v1/breakpoints.
func (s *Server) handleBreakpoints(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: s.svc.GetBreakpoints()})
	case http.MethodPost:
		var req BreakpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		info := s.svc.AddBreakpoint(req.Address, req.Temporary)
		writeJSON(w, http.StatusCreated, info)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleBreakpointByID handles DELETE /api/v1/breakpoints/{id}.
func (s *Server) handleBreakpointByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idStr := r.URL.Path[len("/api/v1/breakpoints/"):]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid breakpoint id")
		return
	}
	if err := s.svc.RemoveBreakpoint(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
