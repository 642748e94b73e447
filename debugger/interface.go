package debugger

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RunCLI runs a line-oriented debugger REPL on stdin/stdout.
func RunCLI(dbg *Debugger) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("(rv64-dbg) ")

		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if line == "quit" || line == "q" || line == "exit" {
			fmt.Println("exiting debugger")
			break
		}

		if err := dbg.ExecuteCommand(line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
		if out := dbg.GetOutput(); out != "" {
			fmt.Print(out)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading debugger input: %w", err)
	}
	return nil
}

// RunTUI starts the tcell/tview visual debugger.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
