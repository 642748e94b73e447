package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"riscv64emu/api"
	"riscv64emu/bus"
	"riscv64emu/config"
	"riscv64emu/cpu"
	"riscv64emu/debugger"
	"riscv64emu/disasm"
	"riscv64emu/loader"
	"riscv64emu/service"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rv64",
		Short: "rv64: an RV64IM interpreter, debugger, and API server",
	}
	rootCmd.AddCommand(newRunCmd(), newDisasmCmd(), newDebugCmd(), newServeCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("rv64 %s (%s)\n", Version, Commit)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var maxCycles uint64
	var traceInstr bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Load and run a flat RV64IM binary to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if maxCycles != 0 {
				cfg.Execution.MaxCycles = maxCycles
			}
			cfg.Trace.EnableInstructions = cfg.Trace.EnableInstructions || traceInstr

			m := cpu.New(bus.New(cfg.Execution.DRAMSize))
			if err := loader.LoadFile(m, args[0]); err != nil {
				return err
			}
			pc, err := cfg.EntryPC()
			if err != nil {
				return err
			}
			m.PC = pc

			var traceOut *os.File
			if cfg.Trace.EnableInstructions {
				f, err := os.Create(cfg.Trace.OutputFile) // #nosec G304 -- operator-supplied trace path
				if err != nil {
					return fmt.Errorf("create trace file: %w", err)
				}
				defer f.Close()
				traceOut = f
			}

			runErr := runToCompletion(m, cfg.Execution.MaxCycles, traceOut, cfg.Trace.EnableRegisters)
			m.DumpState(os.Stdout)
			if runErr != nil {
				return fmt.Errorf("execution stopped: %w", runErr)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "Maximum cycles before forced halt (0 = unbounded)")
	cmd.Flags().BoolVar(&traceInstr, "trace", false, "Print each instruction as it executes")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	var addrStr string
	var count int

	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Disassemble a flat RV64IM binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := cpu.New(bus.NewDefault())
			if err := loader.LoadFile(m, args[0]); err != nil {
				return err
			}

			start := bus.Base
			if addrStr != "" {
				v, err := parseAddress(addrStr)
				if err != nil {
					return err
				}
				start = v
			}

			for i := 0; i < count; i++ {
				addr := start + uint64(i*4)
				word, err := m.Bus.Load32(addr)
				if err != nil {
					break
				}
				text, derr := disasm.Disassemble(word)
				if derr != nil {
					text = fmt.Sprintf("<%v>", derr)
				}
				fmt.Printf("0x%08x: %08x  %s\n", addr, word, text)
				if word == cpu.HaltWord {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addrStr, "addr", "", "Start address (default: DRAM base)")
	cmd.Flags().IntVar(&count, "count", 64, "Number of instructions to print")
	return cmd
}

func newDebugCmd() *cobra.Command {
	var tui bool

	cmd := &cobra.Command{
		Use:   "debug <file>",
		Short: "Load a binary and attach the interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			m := cpu.New(bus.New(cfg.Execution.DRAMSize))
			if err := loader.LoadFile(m, args[0]); err != nil {
				return err
			}
			pc, err := cfg.EntryPC()
			if err != nil {
				return err
			}
			m.PC = pc

			svc := service.NewDebuggerService(m)
			dbg := debugger.NewDebugger(svc)
			dbg.History.SetMax(cfg.Debugger.HistorySize)

			if tui || cfg.Debugger.StartAttached {
				return debugger.RunTUI(dbg)
			}
			return debugger.RunCLI(dbg)
		},
	}
	cmd.Flags().BoolVar(&tui, "tui", false, "Use the full-screen terminal UI instead of the line REPL")
	return cmd
}

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Load a binary and expose it over HTTP/WebSocket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if port != 0 {
				cfg.API.Port = port
				cfg.API.Enabled = true
			}
			if !cfg.API.Enabled {
				return fmt.Errorf("API server disabled (set [api] enabled = true in config, or pass --port)")
			}

			m := cpu.New(bus.New(cfg.Execution.DRAMSize))
			if err := loader.LoadFile(m, args[0]); err != nil {
				return err
			}
			pc, err := cfg.EntryPC()
			if err != nil {
				return err
			}
			m.PC = pc

			svc := service.NewDebuggerService(m)
			server := api.NewServer(svc, cfg.API.Port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return server.Shutdown(context.Background())
			}
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "API server port (overrides config)")
	return cmd
}

// runToCompletion steps the CPU until it halts, faults, or hits maxCycles
// (0 = unbounded). When trace is non-nil it writes one line per retired
// instruction, optionally followed by the full register dump.
func runToCompletion(m *cpu.CPU, maxCycles uint64, trace *os.File, traceRegs bool) error {
	for !m.Halt {
		if maxCycles != 0 && m.Cycle >= maxCycles {
			return fmt.Errorf("exceeded max-cycles (%d)", maxCycles)
		}

		pc := m.PC
		if err := m.Step(); err != nil {
			return err
		}

		if trace != nil {
			word, _ := m.Bus.Load32(pc)
			text, derr := disasm.Disassemble(word)
			if derr != nil {
				text = fmt.Sprintf("<%v>", derr)
			}
			fmt.Fprintf(trace, "cycle=%d pc=0x%016x %s\n", m.Cycle, pc, text)
			if traceRegs {
				m.DumpState(trace)
			}
		}
	}
	return nil
}

func parseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}
