package disasm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bassosimone/riscsim/internal/decode"
	"github.com/bassosimone/riscsim/internal/disasm"
)

func TestFormatRegReg(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagRegReg, Op: decode.ADD, Rd: 1, Rs1: 2, Rs2: 3}
	assert.Equal(t, "add x1, x2, x3", disasm.Format(ins))
}

func TestFormatRegImm(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagRegImm, Op: decode.ADDI, Rd: 1, Rs1: 2, Imm: -4}
	assert.Equal(t, "addi x1, x2, -4", disasm.Format(ins))
}

func TestFormatRegImmShift(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagRegImm, Op: decode.SLLI, Rd: 1, Rs1: 2, Shamt: 5}
	assert.Equal(t, "slli x1, x2, 5", disasm.Format(ins))
}

func TestFormatLoad(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagLoad, Op: decode.LW, Rd: 1, Rs1: 2, Imm: 8}
	assert.Equal(t, "lw x1, 8(x2)", disasm.Format(ins))
}

func TestFormatStore(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagStore, Op: decode.SW, Rs1: 2, Rs2: 3, Imm: -16}
	assert.Equal(t, "sw x3, -16(x2)", disasm.Format(ins))
}

func TestFormatBranch(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagBranch, Op: decode.BEQ, Rs1: 1, Rs2: 2, Imm: -12}
	assert.Equal(t, "beq x1, x2, -12", disasm.Format(ins))
}

func TestFormatJal(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagJal, Rd: 1, Imm: 2048}
	assert.Equal(t, "jal x1, 2048", disasm.Format(ins))
}

func TestFormatJalr(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagJalr, Rd: 1, Rs1: 2, Imm: 0}
	assert.Equal(t, "jalr x1, x2, 0", disasm.Format(ins))
}

func TestFormatLui(t *testing.T) {
	ins := decode.Instruction{Tag: decode.TagLui, Rd: 1, Imm: 65536 << 12}
	assert.Equal(t, "lui x1, 65536", disasm.Format(ins))
}

func TestFormatEcall(t *testing.T) {
	assert.Equal(t, "ecall", disasm.Format(decode.Instruction{Tag: decode.TagEcall}))
}

func TestFormatIllegalIsEmpty(t *testing.T) {
	assert.Equal(t, "", disasm.Format(decode.Instruction{Tag: decode.TagIllegal, Word: 0xffffffff}))
}

func TestDecodeDisassembleDuality(t *testing.T) {
	// 0x00500093 is addi x1, x0, 5
	ins := decode.Decode(0x00500093)
	assert.Equal(t, "addi x1, x0, 5", disasm.Format(ins))
}
