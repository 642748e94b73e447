// Package service adapts the RV64IM core (package cpu) into the shape
// the debugger TUI and the HTTP/WebSocket API both want: a single
// mutex-guarded façade over one running machine, so neither consumer
// can race the other mid-step.
package service

import (
	"context"
	"fmt"
	"sync"

	"riscv64emu/cpu"
	"riscv64emu/disasm"
)

// DebuggerService owns one CPU and arbitrates access to it for the
// debugger and API layers.
type DebuggerService struct {
	mu sync.Mutex

	cpu         *cpu.CPU
	breakpoints *BreakpointManager
	running     bool
	lastFault   error

	onStateChanged func()
}

func NewDebuggerService(m *cpu.CPU) *DebuggerService {
	return &DebuggerService{
		cpu:         m,
		breakpoints: NewBreakpointManager(),
	}
}

func (s *DebuggerService) CPU() *cpu.CPU {
	return s.cpu
}

// SetStateChangedCallback registers a hook invoked after every Step,
// Continue batch and Reset, used by the API layer to push WebSocket
// events without polling.
func (s *DebuggerService) SetStateChangedCallback(cb func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChanged = cb
}

// notify must be called with s.mu held. The callback runs with s.mu
// released, since it typically reads state back through this service.
func (s *DebuggerService) notify() {
	cb := s.onStateChanged
	if cb == nil {
		return
	}
	s.mu.Unlock()
	cb()
	s.mu.Lock()
}

func (s *DebuggerService) GetRegisterState() RegisterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RegisterState{
		X:      s.cpu.Regs.Snapshot(),
		PC:     s.cpu.PC,
		Cycle:  s.cpu.Cycle,
		Mode:   s.cpu.Mode.String(),
		Halted: s.cpu.Halt,
	}
}

func (s *DebuggerService) GetExecutionState() ExecutionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.lastFault != nil:
		return StateFault
	case s.cpu.Halt:
		return StateHalted
	case s.breakpoints.HasBreakpoint(s.cpu.PC):
		return StateBreakpoint
	default:
		return StateRunning
	}
}

// Step executes exactly one instruction.
func (s *DebuggerService) Step() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cpu.Halt {
		return nil
	}
	err := s.cpu.Step()
	s.lastFault = err
	s.notify()
	return err
}

// Continue runs until halt, fault, breakpoint hit, or ctx cancellation.
func (s *DebuggerService) Continue(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.mu.Lock()
		if s.cpu.Halt {
			s.mu.Unlock()
			return nil
		}
		err := s.cpu.Step()
		s.lastFault = err
		hitBreak := err == nil && s.breakpoints.ProcessHit(s.cpu.PC) != nil
		s.notify()
		s.mu.Unlock()

		if err != nil {
			return err
		}
		if hitBreak {
			return nil
		}
	}
}

func (s *DebuggerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *DebuggerService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cpu.Reset()
	s.lastFault = nil
	s.notify()
}

func (s *DebuggerService) LastFault() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFault
}

func (s *DebuggerService) AddBreakpoint(addr uint64, temporary bool) BreakpointInfo {
	bp := s.breakpoints.AddBreakpoint(addr, temporary)
	return toBreakpointInfo(bp)
}

func (s *DebuggerService) RemoveBreakpoint(id int) error {
	return s.breakpoints.DeleteBreakpoint(id)
}

func (s *DebuggerService) GetBreakpoints() []BreakpointInfo {
	bps := s.breakpoints.GetAllBreakpoints()
	out := make([]BreakpointInfo, len(bps))
	for i, bp := range bps {
		out[i] = toBreakpointInfo(bp)
	}
	return out
}

func toBreakpointInfo(bp *Breakpoint) BreakpointInfo {
	return BreakpointInfo{
		ID:        bp.ID,
		Address:   bp.Address,
		Enabled:   bp.Enabled,
		Temporary: bp.Temporary,
		HitCount:  bp.HitCount,
	}
}

// GetMemory reads size bytes starting at addr, one byte at a time so a
// fault reports exactly the offending byte rather than the whole span.
func (s *DebuggerService) GetMemory(addr uint64, size int) (MemoryRegion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, size)
	for i := 0; i < size; i++ {
		b, err := s.cpu.Bus.Load8(addr + uint64(i))
		if err != nil {
			return MemoryRegion{}, fmt.Errorf("read memory at 0x%016x: %w", addr+uint64(i), err)
		}
		data[i] = b
	}
	return MemoryRegion{Address: addr, Data: data}, nil
}

// GetDisassembly decodes count instruction words starting at addr.
func (s *DebuggerService) GetDisassembly(addr uint64, count int) ([]DisassemblyLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]DisassemblyLine, 0, count)
	for i := 0; i < count; i++ {
		a := addr + uint64(i*4)
		word, err := s.cpu.Bus.Load32(a)
		if err != nil {
			break
		}
		text, err := disasm.Disassemble(word)
		if err != nil {
			text = fmt.Sprintf("<%v>", err)
		}
		lines = append(lines, DisassemblyLine{Address: a, Word: word, Text: text})
	}
	return lines, nil
}

// DRAMSize reports the bus window size in bytes.
func (s *DebuggerService) DRAMSize() int {
	return s.cpu.Bus.Size()
}
