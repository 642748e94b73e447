package debugger

// DisassemblyContextLines is the number of instructions the TUI shows
// in the disassembly panel, starting at PC.
const DisassemblyContextLines = 20

// MemoryViewBytes is the number of bytes the TUI's memory panel shows
// per refresh.
const MemoryViewBytes = 128

// MemoryViewBytesPerRow is the hex-dump row width used by both the TUI
// memory panel and the "x" command.
const MemoryViewBytesPerRow = 16
