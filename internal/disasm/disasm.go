// Package disasm renders a decoded instruction as a canonical textual
// assembly line. It shares the decode package's Instruction shape with
// the executor, so the two stay field-for-field consistent.
package disasm

import (
	"fmt"

	"github.com/bassosimone/riscsim/internal/decode"
)

var regRegMnemonic = map[decode.Op]string{
	decode.ADD: "add", decode.SUB: "sub", decode.SLL: "sll", decode.SLT: "slt",
	decode.XOR: "xor", decode.SRL: "srl", decode.SRA: "sra", decode.OR: "or",
	decode.AND: "and", decode.MUL: "mul", decode.DIV: "div", decode.DIVU: "divu",
}

var regImmMnemonic = map[decode.Op]string{
	decode.ADDI: "addi", decode.SLTI: "slti", decode.XORI: "xori",
	decode.ORI: "ori", decode.ANDI: "andi",
	decode.SLLI: "slli", decode.SRLI: "srli", decode.SRAI: "srai",
}

var loadMnemonic = map[decode.Op]string{
	decode.LB: "lb", decode.LH: "lh", decode.LW: "lw",
	decode.LBU: "lbu", decode.LHU: "lhu",
}

var storeMnemonic = map[decode.Op]string{
	decode.SB: "sb", decode.SH: "sh", decode.SW: "sw",
}

var branchMnemonic = map[decode.Op]string{
	decode.BEQ: "beq", decode.BNE: "bne", decode.BLT: "blt",
	decode.BGE: "bge", decode.BLTU: "bltu", decode.BGEU: "bgeu",
}

var shiftOps = map[decode.Op]bool{
	decode.SLLI: true, decode.SRLI: true, decode.SRAI: true,
}

// Format renders a single decoded instruction as a canonical assembly
// line. Illegal decodings render as the empty string, matching the
// reference simulator's silent behavior on unrecognized words.
func Format(ins decode.Instruction) string {
	switch ins.Tag {
	case decode.TagRegReg:
		return fmt.Sprintf("%s x%d, x%d, x%d", regRegMnemonic[ins.Op], ins.Rd, ins.Rs1, ins.Rs2)
	case decode.TagRegImm:
		if shiftOps[ins.Op] {
			return fmt.Sprintf("%s x%d, x%d, %d", regImmMnemonic[ins.Op], ins.Rd, ins.Rs1, ins.Shamt)
		}
		return fmt.Sprintf("%s x%d, x%d, %d", regImmMnemonic[ins.Op], ins.Rd, ins.Rs1, ins.Imm)
	case decode.TagLoad:
		return fmt.Sprintf("%s x%d, %d(x%d)", loadMnemonic[ins.Op], ins.Rd, ins.Imm, ins.Rs1)
	case decode.TagStore:
		return fmt.Sprintf("%s x%d, %d(x%d)", storeMnemonic[ins.Op], ins.Rs2, ins.Imm, ins.Rs1)
	case decode.TagBranch:
		return fmt.Sprintf("%s x%d, x%d, %d", branchMnemonic[ins.Op], ins.Rs1, ins.Rs2, ins.Imm)
	case decode.TagJal:
		return fmt.Sprintf("jal x%d, %d", ins.Rd, ins.Imm)
	case decode.TagJalr:
		return fmt.Sprintf("jalr x%d, x%d, %d", ins.Rd, ins.Rs1, ins.Imm)
	case decode.TagLui:
		return fmt.Sprintf("lui x%d, %d", ins.Rd, ins.Imm>>12)
	case decode.TagAuipc:
		return fmt.Sprintf("auipc x%d, %d", ins.Rd, ins.Imm>>12)
	case decode.TagEcall:
		return "ecall"
	default:
		return ""
	}
}
