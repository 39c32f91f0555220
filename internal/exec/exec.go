// Package exec implements the executor stage: given the current
// architectural State and a decoded instruction, it produces the next
// State, performing at most one memory load and one memory store along
// the way.
package exec

import (
	"github.com/bassosimone/riscsim/internal/decode"
	"github.com/bassosimone/riscsim/internal/memory"
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 32

// State is the architectural state of the simulated core: the program
// counter and the 32 general-purpose registers. Regs[0] always reads
// as zero; Step enforces this as its final action.
type State struct {
	PC   uint32
	Regs [NumRegisters]uint32
}

// ecallReg17 is the status code the original simulator leaves in x17
// on ECALL, borrowed from the reference implementation's convention.
const ecallReg17 = 0x5D

// Step consumes the current state and a decoded instruction and
// returns the next state. Halted reports whether this instruction was
// an ECALL, which the simulator driver uses to clear its run flag.
//
// Ordering matches spec.md §5: PC defaults to current+4 first, then the
// instruction's effect (at most one load before any store) applies, then
// any control-transfer overrides PC, and finally Regs[0] is forced to
// zero as the very last step.
func Step(cur State, ins decode.Instruction, mem *memory.Map) (next State, halted bool) {
	next = cur
	next.PC = cur.PC + 4

	switch ins.Tag {
	case decode.TagRegReg:
		execRegReg(&next, cur, ins)
	case decode.TagRegImm:
		execRegImm(&next, cur, ins)
	case decode.TagLoad:
		execLoad(&next, cur, ins, mem)
	case decode.TagStore:
		execStore(cur, ins, mem)
	case decode.TagBranch:
		execBranch(&next, cur, ins)
	case decode.TagJal:
		next.Regs[ins.Rd] = cur.PC + 4
		next.PC = uint32(int32(cur.PC) + ins.Imm)
	case decode.TagJalr:
		target := cur.Regs[ins.Rs1] + uint32(ins.Imm)
		next.Regs[ins.Rd] = cur.PC + 4
		next.PC = target &^ 1
	case decode.TagLui:
		next.Regs[ins.Rd] = uint32(ins.Imm)
	case decode.TagAuipc:
		next.Regs[ins.Rd] = cur.PC + uint32(ins.Imm)
	case decode.TagEcall:
		next.Regs[17] = ecallReg17
		halted = true
	case decode.TagIllegal:
		// silent no-op: PC already advanced by +4 above.
	}

	next.Regs[0] = 0
	return next, halted
}

func execRegReg(next *State, cur State, ins decode.Instruction) {
	a, b := cur.Regs[ins.Rs1], cur.Regs[ins.Rs2]
	sa, sb := int32(a), int32(b)
	var v uint32
	switch ins.Op {
	case decode.ADD:
		v = a + b
	case decode.SUB:
		v = a - b
	case decode.SLL:
		v = a << (b & 0x1f)
	case decode.SLT:
		v = boolToWord(sa < sb)
	case decode.XOR:
		v = a ^ b
	case decode.SRL:
		v = a >> (b & 0x1f)
	case decode.SRA:
		v = uint32(sa >> (b & 0x1f))
	case decode.OR:
		v = a | b
	case decode.AND:
		v = a & b
	case decode.MUL:
		v = uint32(sa * sb)
	case decode.DIV:
		v = uint32(divSigned(sa, sb))
	case decode.DIVU:
		v = divUnsigned(a, b)
	}
	next.Regs[ins.Rd] = v
}

func execRegImm(next *State, cur State, ins decode.Instruction) {
	a := cur.Regs[ins.Rs1]
	sa := int32(a)
	var v uint32
	switch ins.Op {
	case decode.ADDI:
		v = uint32(sa + ins.Imm)
	case decode.SLTI:
		v = boolToWord(sa < ins.Imm)
	case decode.XORI:
		v = uint32(sa ^ ins.Imm)
	case decode.ORI:
		v = uint32(sa | ins.Imm)
	case decode.ANDI:
		v = uint32(sa & ins.Imm)
	case decode.SLLI:
		v = a << ins.Shamt
	case decode.SRLI:
		v = a >> ins.Shamt
	case decode.SRAI:
		v = uint32(sa >> ins.Shamt)
	}
	next.Regs[ins.Rd] = v
}

func execLoad(next *State, cur State, ins decode.Instruction, mem *memory.Map) {
	ea := cur.Regs[ins.Rs1] + uint32(ins.Imm)
	data := mem.ReadWord(ea)
	var v uint32
	switch ins.Op {
	case decode.LB:
		v = uint32(int32(int8(data)))
	case decode.LH:
		v = uint32(int32(int16(data)))
	case decode.LW:
		v = data
	case decode.LBU:
		v = data & 0xff
	case decode.LHU:
		v = data & 0xffff
	}
	next.Regs[ins.Rd] = v
}

func execStore(cur State, ins decode.Instruction, mem *memory.Map) {
	ea := cur.Regs[ins.Rs1] + uint32(ins.Imm)
	v := cur.Regs[ins.Rs2]
	switch ins.Op {
	case decode.SW:
		mem.WriteWord(ea, v)
	case decode.SH:
		spliceStore(mem, ea, v, 0xffff)
	case decode.SB:
		spliceStore(mem, ea, v, 0xff)
	}
}

// spliceStore reads the aligned word containing ea, splices in the low
// `mask` bits of v at ea's byte offset within that word, and writes
// the result back. This is how sub-word stores are synthesized, since
// Map exposes only aligned word access.
func spliceStore(mem *memory.Map, ea uint32, v uint32, mask uint32) {
	base := ea &^ 3
	shift := (ea % 4) * 8
	word := mem.ReadWord(base)
	word = (word &^ (mask << shift)) | ((v & mask) << shift)
	mem.WriteWord(base, word)
}

func execBranch(next *State, cur State, ins decode.Instruction) {
	a, b := cur.Regs[ins.Rs1], cur.Regs[ins.Rs2]
	sa, sb := int32(a), int32(b)
	var taken bool
	switch ins.Op {
	case decode.BEQ:
		taken = a == b
	case decode.BNE:
		taken = a != b
	case decode.BLT:
		taken = sa < sb
	case decode.BGE:
		taken = sa >= sb
	case decode.BLTU:
		taken = a < b
	case decode.BGEU:
		taken = a >= b
	}
	if taken {
		next.PC = uint32(int32(cur.PC) + ins.Imm)
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// divSigned implements RISC-V signed division semantics: division by
// zero yields -1 (all-ones) and the INT32_MIN/-1 overflow case yields
// INT32_MIN, rather than trapping or invoking undefined behavior the
// way the reference C simulator's raw `/` operator does.
func divSigned(a, b int32) int32 {
	if b == 0 {
		return -1
	}
	if a == -2147483648 && b == -1 {
		return -2147483648
	}
	return a / b
}

// divUnsigned implements RISC-V unsigned division semantics: division
// by zero yields all-ones.
func divUnsigned(a, b uint32) uint32 {
	if b == 0 {
		return 0xffffffff
	}
	return a / b
}
