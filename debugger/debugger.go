package debugger

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"riscv64emu/cpu"
	"riscv64emu/service"
)

// Debugger drives one service.DebuggerService from line-oriented
// commands. It is shared by the interactive command loop and the TUI's
// command field.
type Debugger struct {
	Svc     *service.DebuggerService
	History *CommandHistory

	LastCommand string
	Output      strings.Builder
}

func NewDebugger(svc *service.DebuggerService) *Debugger {
	return &Debugger{
		Svc:     svc,
		History: NewCommandHistory(),
	}
}

// ResolveAddress parses a hex ("0x...") or decimal address literal.
func ResolveAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	addr, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return addr, nil
}

// ExecuteCommand parses and runs a single REPL line. An empty line
// repeats the previous command, matching gdb-style debuggers.
func (d *Debugger) ExecuteCommand(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		line = d.LastCommand
	}
	if line != "" {
		d.History.Add(line)
		d.LastCommand = line
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	return d.dispatch(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) dispatch(cmd string, args []string) error {
	switch cmd {
	case "step", "s", "si":
		return d.cmdStep()
	case "continue", "c":
		return d.cmdContinue()
	case "break", "b":
		return d.cmdBreak(args, false)
	case "tbreak", "tb":
		return d.cmdBreak(args, true)
	case "delete", "d":
		return d.cmdDelete(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "disas", "disassemble":
		return d.cmdDisassemble(args)
	case "reset":
		d.Svc.Reset()
		d.Println("machine reset")
		return nil
	case "help", "h", "?":
		return d.cmdHelp()
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

func (d *Debugger) cmdStep() error {
	if err := d.Svc.Step(); err != nil {
		return err
	}
	st := d.Svc.GetRegisterState()
	d.Printf("PC = 0x%016x\n", st.PC)
	return nil
}

func (d *Debugger) cmdContinue() error {
	err := d.Svc.Continue(context.Background())
	st := d.Svc.GetExecutionState()
	d.Printf("stopped: %s\n", st)
	return err
}

func (d *Debugger) cmdBreak(args []string, temporary bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: break <address>")
	}
	addr, err := ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Svc.AddBreakpoint(addr, temporary)
	d.Printf("breakpoint %d at 0x%016x\n", bp.ID, bp.Address)
	return nil
}

func (d *Debugger) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id %q", args[0])
	}
	return d.Svc.RemoveBreakpoint(id)
}

func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info registers|breakpoints")
	}
	switch args[0] {
	case "registers", "regs", "r":
		st := d.Svc.GetRegisterState()
		for i := 0; i < 32; i += 4 {
			d.Printf("%-3s=%016x  %-3s=%016x  %-3s=%016x  %-3s=%016x\n",
				cpu.ABINames[i], st.X[i], cpu.ABINames[i+1], st.X[i+1], cpu.ABINames[i+2], st.X[i+2], cpu.ABINames[i+3], st.X[i+3])
		}
		d.Printf("pc =%016x  cycle=%d  mode=%s  halted=%v\n", st.PC, st.Cycle, st.Mode, st.Halted)
	case "breakpoints", "break", "b":
		for _, bp := range d.Svc.GetBreakpoints() {
			d.Printf("%d: 0x%016x enabled=%v temp=%v hits=%d\n", bp.ID, bp.Address, bp.Enabled, bp.Temporary, bp.HitCount)
		}
	default:
		return fmt.Errorf("unknown info subcommand: %s", args[0])
	}
	return nil
}

func (d *Debugger) cmdPrint(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: print <register>")
	}
	idx, ok := registerIndex(args[0])
	if !ok {
		return fmt.Errorf("unknown register %q", args[0])
	}
	st := d.Svc.GetRegisterState()
	d.Printf("%s = 0x%016x (%d)\n", args[0], st.X[idx], int64(st.X[idx]))
	return nil
}

func (d *Debugger) cmdExamine(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: x <address> <count>")
	}
	addr, err := ResolveAddress(args[0])
	if err != nil {
		return err
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid count %q", args[1])
	}
	region, err := d.Svc.GetMemory(addr, count)
	if err != nil {
		return err
	}
	for i, b := range region.Data {
		if i%MemoryViewBytesPerRow == 0 {
			d.Printf("\n0x%016x: ", addr+uint64(i))
		}
		d.Printf("%02x ", b)
	}
	d.Println()
	return nil
}

func (d *Debugger) cmdDisassemble(args []string) error {
	addr := d.Svc.GetRegisterState().PC
	count := 10
	if len(args) >= 1 {
		a, err := ResolveAddress(args[0])
		if err != nil {
			return err
		}
		addr = a
	}
	if len(args) >= 2 {
		c, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[1])
		}
		count = c
	}
	lines, err := d.Svc.GetDisassembly(addr, count)
	if err != nil {
		return err
	}
	for _, l := range lines {
		d.Printf("0x%016x: %08x  %s\n", l.Address, l.Word, l.Text)
	}
	return nil
}

func (d *Debugger) cmdHelp() error {
	d.Println("commands: step, continue, break <addr>, tbreak <addr>, delete <id>,")
	d.Println("          info registers|breakpoints, print <reg>, x <addr> <count>,")
	d.Println("          disas [addr] [count], reset, help")
	return nil
}

// registerIndex resolves either an ABI name ("sp", "a0") or a numeric
// form ("x2") to a register index.
func registerIndex(name string) (int, bool) {
	for i, n := range cpu.ABINames {
		if n == name {
			return i, true
		}
	}
	if strings.HasPrefix(name, "x") {
		if i, err := strconv.Atoi(name[1:]); err == nil && i >= 0 && i < 32 {
			return i, true
		}
	}
	return 0, false
}

func (d *Debugger) GetOutput() string {
	out := d.Output.String()
	d.Output.Reset()
	return out
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(&d.Output, format, args...)
}

func (d *Debugger) Println(args ...interface{}) {
	fmt.Fprintln(&d.Output, args...)
}
