// Package sim implements the simulator driver: it owns the current and
// next architectural state, the memory map, the run flag and the
// instruction counter, and runs the fetch/decode/execute/commit loop
// described in spec.md §4.3 and §5. It also owns program loading,
// since reset needs to reload the same image without re-reading the
// file.
package sim

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bassosimone/riscsim/internal/decode"
	"github.com/bassosimone/riscsim/internal/exec"
	"github.com/bassosimone/riscsim/internal/memory"
)

// RegisterCount mirrors exec.NumRegisters for callers that only import sim.
const RegisterCount = exec.NumRegisters

// Simulator is a single simulated core plus its memory. It is not
// goroutine-safe; the shell adapter holds exactly one instance and
// serializes access to it between REPL commands.
type Simulator struct {
	Mem *memory.Map

	current exec.State
	next    exec.State

	running    bool
	instrCount uint64

	program []uint32 // words loaded, kept so Reset can reload without the file
}

// New constructs a Simulator over the default text/data region layout.
func New() *Simulator {
	return NewWithMap(memory.NewMap())
}

// NewWithMap constructs a Simulator over a caller-supplied address
// space, e.g. one built from a config override of the region bounds.
func NewWithMap(m *memory.Map) *Simulator {
	s := &Simulator{Mem: m}
	s.current.PC = m.TextBase()
	s.next = s.current
	s.running = true
	return s
}

// Load reads one hexadecimal 32-bit word per non-empty line from r and
// writes them sequentially into the text region starting at its base
// address, 4 bytes apart. A malformed line is not a fatal error: Load
// stops reading right there, as if it had hit EOF, and still writes
// every word parsed before it into memory, leaving ProgramWords
// reflecting that shorter count. Only a genuine read failure from r
// (scanner.Err) is returned as an error; an unreadable *file* is the
// caller's concern (see cmd/riscsim, which treats os.Open failing as
// fatal at startup and a malformed line as merely a short load).
// onWord, if non-nil, is invoked once per loaded word with its address
// and value, for callers that want a load trace (SPEC_FULL.md's
// SUPPLEMENTED FEATURES §1) without the core depending on any particular logger.
func (s *Simulator) Load(r io.Reader, onWord func(addr, word uint32)) error {
	base := s.Mem.TextBase()
	var words []uint32
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}
		parseable := line
		if !strings.HasPrefix(parseable, "0x") && !strings.HasPrefix(parseable, "0X") {
			parseable = "0x" + parseable
		}
		value, err := strconv.ParseUint(parseable, 0, 32)
		if err != nil {
			break
		}
		words = append(words, uint32(value))
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	for i, w := range words {
		addr := base + uint32(i*4)
		s.Mem.WriteWord(addr, w)
		if onWord != nil {
			onWord(addr, w)
		}
	}
	s.program = words
	return nil
}

// ProgramWords returns the number of words loaded by the last Load or
// Reset, i.e. PROGRAM_SIZE in spec.md's terms.
func (s *Simulator) ProgramWords() int {
	return len(s.program)
}

// Running reports whether the run flag is set.
func (s *Simulator) Running() bool {
	return s.running
}

// InstructionCount returns the number of committed cycles since the
// last Reset.
func (s *Simulator) InstructionCount() uint64 {
	return s.instrCount
}

// Reset zeros every register and the whole address space, reloads the
// program image captured by the last Load, resets PC to the text
// base, zeros the instruction counter, and sets the run flag.
func (s *Simulator) Reset() {
	s.current = exec.State{}
	s.next = exec.State{}
	s.Mem.Reset()
	base := s.Mem.TextBase()
	for i, w := range s.program {
		s.Mem.WriteWord(base+uint32(i*4), w)
	}
	s.current.PC = base
	s.next = s.current
	s.instrCount = 0
	s.running = true
}

// Cycle performs one fetch/decode/execute/commit step, unconditionally,
// regardless of the run flag. It is the building block Run and RunAll
// use once they've checked the run flag themselves.
func (s *Simulator) Cycle() {
	word := s.Mem.ReadWord(s.current.PC)
	ins := decode.Decode(word)
	next, halted := exec.Step(s.current, ins, s.Mem)
	s.next = next
	s.current = s.next
	s.instrCount++
	if halted {
		s.running = false
	}
}

// Run executes at most n cycles, stopping early if the run flag
// clears. It returns the number of cycles actually executed and
// whether the machine was already stopped when Run was called (in
// which case it performs no cycles at all). n <= 0 is a no-op.
func (s *Simulator) Run(n int) (executed int, alreadyStopped bool) {
	if !s.running {
		return 0, true
	}
	for i := 0; i < n; i++ {
		if !s.running {
			break
		}
		s.Cycle()
		executed++
	}
	return executed, false
}

// RunAll executes cycles until the run flag clears. It returns whether
// the machine was already stopped when RunAll was called.
func (s *Simulator) RunAll() (alreadyStopped bool) {
	if !s.running {
		return true
	}
	for s.running {
		s.Cycle()
	}
	return false
}

// Input sets register reg to value in both the committed and pending
// state, so the write survives the next Cycle's commit (spec.md §5).
// Writes to register 0 are accepted but have no observable effect:
// the value is discarded, so x0 keeps reading as zero.
func (s *Simulator) Input(reg int, value uint32) error {
	if reg < 0 || reg >= RegisterCount {
		return fmt.Errorf("sim: register index %d out of range", reg)
	}
	if reg == 0 {
		return nil
	}
	s.current.Regs[reg] = value
	s.next.Regs[reg] = value
	return nil
}

// RegisterDump is the committed state as surfaced by the rdump shell
// command: the instruction count, PC, and all general-purpose registers.
type RegisterDump struct {
	InstructionCount uint64
	PC               uint32
	Regs             [RegisterCount]uint32
}

// Dump returns a snapshot of the committed architectural state.
func (s *Simulator) Dump() RegisterDump {
	return RegisterDump{
		InstructionCount: s.instrCount,
		PC:               s.current.PC,
		Regs:             s.current.Regs,
	}
}

// MemoryWord pairs an address with the committed word stored there.
type MemoryWord struct {
	Addr  uint32
	Value uint32
}

// DumpMemory returns the committed words in [start, stop], stepping by
// 4, matching the reference simulator's mdump contract. Callers are
// responsible for word-aligning start and stop if they want aligned
// semantics; ReadWord does not align on their behalf.
func (s *Simulator) DumpMemory(start, stop uint32) []MemoryWord {
	if start > stop {
		return nil
	}
	var out []MemoryWord
	for addr := start; addr <= stop; addr += 4 {
		out = append(out, MemoryWord{Addr: addr, Value: s.Mem.ReadWord(addr)})
	}
	return out
}

// DisassembleProgram decodes and renders the n words starting at the
// text base, matching the reference simulator's print command: it
// walks PROGRAM_SIZE words regardless of the run flag or PC.
func (s *Simulator) DisassembleProgram(n int, format func(decode.Instruction) string) []string {
	base := s.Mem.TextBase()
	lines := make([]string, n)
	for i := 0; i < n; i++ {
		word := s.Mem.ReadWord(base + uint32(i*4))
		lines[i] = format(decode.Decode(word))
	}
	return lines
}
