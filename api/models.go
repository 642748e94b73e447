package api

import (
	"time"

	"riscv64emu/service"
)

// RegistersResponse is the JSON view of the integer register file.
type RegistersResponse struct {
	X      [32]uint64 `json:"x"`
	PC     uint64     `json:"pc"`
	Cycle  uint64     `json:"cycle"`
	Mode   string     `json:"mode"`
	Halted bool       `json:"halted"`
}

// MemoryRequest describes a read of the DRAM window.
type MemoryRequest struct {
	Address uint64 `json:"address"`
	Length  int    `json:"length"`
}

// MemoryResponse carries the bytes read back from DRAM.
type MemoryResponse struct {
	Address uint64 `json:"address"`
	Data    []byte `json:"data"`
}

// DisassemblyRequest describes a disassembly window.
type DisassemblyRequest struct {
	Address uint64 `json:"address"`
	Count   int    `json:"count"`
}

// DisassemblyResponse carries decoded instruction lines.
type DisassemblyResponse struct {
	Lines []service.DisassemblyLine `json:"lines"`
}

// BreakpointRequest adds or removes a breakpoint.
type BreakpointRequest struct {
	Address   uint64 `json:"address"`
	Temporary bool   `json:"temporary,omitempty"`
}

// BreakpointsResponse lists the active breakpoints.
type BreakpointsResponse struct {
	Breakpoints []service.BreakpointInfo `json:"breakpoints"`
}

// StatusResponse reports overall machine state.
type StatusResponse struct {
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the JSON body for any 4xx/5xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Event is the envelope for every message pushed over the WebSocket.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StateEvent is broadcast after every step/continue/reset.
type StateEvent struct {
	State     string `json:"state"`
	PC        uint64 `json:"pc"`
	Cycle     uint64 `json:"cycle"`
	Halted    bool   `json:"halted"`
	LastFault string `json:"last_fault,omitempty"`
}

// OutputEvent carries a chunk of program output.
type OutputEvent struct {
	Content string `json:"content"`
}

// ExecutionEvent is broadcast once when a run stops for a reason worth
// surfacing on its own: halt, a hit breakpoint, or a fault. StateEvent
// already carries the same transition as part of every state push; this
// is the distinct, lower-frequency signal a client can use to pop up a
// notification without diffing two StateEvents itself.
type ExecutionEvent struct {
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

func toRegistersResponse(st service.RegisterState) RegistersResponse {
	return RegistersResponse{
		X:      st.X,
		PC:     st.PC,
		Cycle:  st.Cycle,
		Mode:   st.Mode,
		Halted: st.Halted,
	}
}
