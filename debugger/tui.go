package debugger

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"riscv64emu/cpu"
)

// TUI is the text user interface for the debugger: a register panel,
// a disassembly panel starting at PC, a memory panel, an output log
// and a command field, wired to one Debugger.
type TUI struct {
	Debugger *Debugger
	App      *tview.Application

	Layout          *tview.Flex
	RegisterView    *tview.TextView
	DisassemblyView *tview.TextView
	MemoryView      *tview.TextView
	OutputView      *tview.TextView
	CommandInput    *tview.InputField

	MemoryAddress uint64
}

func NewTUI(dbg *Debugger) *TUI {
	t := &TUI{
		Debugger:      dbg,
		App:           tview.NewApplication(),
		MemoryAddress: dbg.Svc.GetRegisterState().PC,
	}
	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()
	return t
}

func (t *TUI) initializeViews() {
	t.RegisterView = tview.NewTextView().SetDynamicColors(true)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	t.DisassemblyView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	t.DisassemblyView.SetBorder(true).SetTitle(" Disassembly ")

	t.MemoryView = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	t.MemoryView.SetBorder(true).SetTitle(" Memory ")

	t.OutputView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true).SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")

	t.CommandInput = tview.NewInputField().SetLabel("> ").SetFieldWidth(0)
	t.CommandInput.SetBorder(true).SetTitle(" Command ")
	t.CommandInput.SetDoneFunc(t.handleCommand)
}

func (t *TUI) buildLayout() {
	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.DisassemblyView, 0, 2, false).
		AddItem(t.MemoryView, 0, 1, false)

	content := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(left, 0, 2, false).
		AddItem(t.RegisterView, 40, 0, false)

	t.Layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(content, 0, 4, false).
		AddItem(t.OutputView, 8, 0, false).
		AddItem(t.CommandInput, 3, 0, true)
}

func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF5:
			t.executeCommand("continue")
			return nil
		case tcell.KeyF11:
			t.executeCommand("step")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		case tcell.KeyCtrlL:
			t.RefreshAll()
			return nil
		}
		return event
	})
}

func (t *TUI) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		return
	}
	cmd := t.CommandInput.GetText()
	if cmd != "" {
		t.executeCommand(cmd)
		t.CommandInput.SetText("")
	}
}

func (t *TUI) executeCommand(cmd string) {
	t.Debugger.Output.Reset()
	err := t.Debugger.ExecuteCommand(cmd)
	out := t.Debugger.GetOutput()

	if err != nil {
		t.WriteOutput(fmt.Sprintf("[red]error:[white] %v\n", err))
	}
	if out != "" {
		t.WriteOutput(out)
	}
	t.RefreshAll()
}

func (t *TUI) WriteOutput(text string) {
	fmt.Fprint(t.OutputView, text)
	t.OutputView.ScrollToEnd()
}

func (t *TUI) RefreshAll() {
	t.updateRegisterView()
	t.updateDisassemblyView()
	t.updateMemoryView()
}

func (t *TUI) updateRegisterView() {
	st := t.Debugger.Svc.GetRegisterState()
	t.RegisterView.Clear()
	fmt.Fprintf(t.RegisterView, "pc    %016x\ncycle %d\nmode  %s\nhalt  %v\n\n", st.PC, st.Cycle, st.Mode, st.Halted)
	for i := 0; i < 32; i++ {
		fmt.Fprintf(t.RegisterView, "%-3s %016x\n", cpu.ABINames[i], st.X[i])
	}
}

func (t *TUI) updateDisassemblyView() {
	pc := t.Debugger.Svc.GetRegisterState().PC
	lines, err := t.Debugger.Svc.GetDisassembly(pc, DisassemblyContextLines)
	t.DisassemblyView.Clear()
	if err != nil {
		fmt.Fprintf(t.DisassemblyView, "error: %v\n", err)
		return
	}
	for _, l := range lines {
		marker := "  "
		if l.Address == pc {
			marker = "->"
		}
		fmt.Fprintf(t.DisassemblyView, "%s 0x%016x: %08x  %s\n", marker, l.Address, l.Word, l.Text)
	}
}

func (t *TUI) updateMemoryView() {
	region, err := t.Debugger.Svc.GetMemory(t.MemoryAddress, MemoryViewBytes)
	t.MemoryView.Clear()
	if err != nil {
		fmt.Fprintf(t.MemoryView, "error: %v\n", err)
		return
	}
	for i := 0; i < len(region.Data); i += MemoryViewBytesPerRow {
		end := i + MemoryViewBytesPerRow
		if end > len(region.Data) {
			end = len(region.Data)
		}
		fmt.Fprintf(t.MemoryView, "0x%016x: % x\n", region.Address+uint64(i), region.Data[i:end])
	}
}

func (t *TUI) Run() error {
	t.RefreshAll()
	return t.App.SetRoot(t.Layout, true).SetFocus(t.CommandInput).Run()
}

func (t *TUI) Stop() {
	t.App.Stop()
}
