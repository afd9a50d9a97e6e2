package cpu

// instr pairs a decoded instruction's handler with its addressing mode.
type instr struct {
	fn   func(*Cpu, uint8) error
	mode uint8
}

// decodeTable maps opcode byte to instr: the 151 legal 6502 opcodes, the
// documented illegal NOP variants, the $EB unofficial SBC, and the
// STP/KIL family. Every other byte value is intentionally absent so
// Step's lookup misses and reports an *InvalidOpError, per spec.md §9's
// resolution to not implement SLO/RLA/SRE/RRA/ANC/ALR/ARR/SBX/LAX/SAX/
// DCP/ISC — original_source/decoder.rs never decoded them either.
var decodeTable = map[uint8]instr{
	// ADC
	0x69: {adc, Immediate}, 0x65: {adc, ZeroPage}, 0x75: {adc, ZeroPageX},
	0x6D: {adc, Absolute}, 0x7D: {adc, AbsoluteX}, 0x79: {adc, AbsoluteY},
	0x61: {adc, IndirectX}, 0x71: {adc, IndirectY},

	// AND
	0x29: {and_, Immediate}, 0x25: {and_, ZeroPage}, 0x35: {and_, ZeroPageX},
	0x2D: {and_, Absolute}, 0x3D: {and_, AbsoluteX}, 0x39: {and_, AbsoluteY},
	0x21: {and_, IndirectX}, 0x31: {and_, IndirectY},

	// ASL
	0x0A: {asl, Accumulator}, 0x06: {asl, ZeroPage}, 0x16: {asl, ZeroPageX},
	0x0E: {asl, Absolute}, 0x1E: {asl, AbsoluteX},

	// Branches
	0x90: {bcc, Relative}, 0xB0: {bcs, Relative}, 0xF0: {beq, Relative},
	0x30: {bmi, Relative}, 0xD0: {bne, Relative}, 0x10: {bpl, Relative},
	0x50: {bvc, Relative}, 0x70: {bvs, Relative},

	// BIT
	0x24: {bit, ZeroPage}, 0x2C: {bit, Absolute},

	// BRK
	0x00: {brk, Implied},

	// Flag ops
	0x18: {clc, Implied}, 0xD8: {cld, Implied}, 0x58: {cli, Implied},
	0xB8: {clv, Implied}, 0x38: {sec, Implied}, 0xF8: {sed, Implied},
	0x78: {sei, Implied},

	// CMP
	0xC9: {cmp, Immediate}, 0xC5: {cmp, ZeroPage}, 0xD5: {cmp, ZeroPageX},
	0xCD: {cmp, Absolute}, 0xDD: {cmp, AbsoluteX}, 0xD9: {cmp, AbsoluteY},
	0xC1: {cmp, IndirectX}, 0xD1: {cmp, IndirectY},

	// CPX / CPY
	0xE0: {cpx, Immediate}, 0xE4: {cpx, ZeroPage}, 0xEC: {cpx, Absolute},
	0xC0: {cpy, Immediate}, 0xC4: {cpy, ZeroPage}, 0xCC: {cpy, Absolute},

	// DEC / DEX / DEY
	0xC6: {dec, ZeroPage}, 0xD6: {dec, ZeroPageX}, 0xCE: {dec, Absolute}, 0xDE: {dec, AbsoluteX},
	0xCA: {dex, Implied}, 0x88: {dey, Implied},

	// EOR
	0x49: {eor, Immediate}, 0x45: {eor, ZeroPage}, 0x55: {eor, ZeroPageX},
	0x4D: {eor, Absolute}, 0x5D: {eor, AbsoluteX}, 0x59: {eor, AbsoluteY},
	0x41: {eor, IndirectX}, 0x51: {eor, IndirectY},

	// INC / INX / INY
	0xE6: {inc, ZeroPage}, 0xF6: {inc, ZeroPageX}, 0xEE: {inc, Absolute}, 0xFE: {inc, AbsoluteX},
	0xE8: {inx, Implied}, 0xC8: {iny, Implied},

	// JMP / JSR
	0x4C: {jmp, Absolute}, 0x6C: {jmp, Indirect}, 0x20: {jsr, Absolute},

	// LDA
	0xA9: {lda, Immediate}, 0xA5: {lda, ZeroPage}, 0xB5: {lda, ZeroPageX},
	0xAD: {lda, Absolute}, 0xBD: {lda, AbsoluteX}, 0xB9: {lda, AbsoluteY},
	0xA1: {lda, IndirectX}, 0xB1: {lda, IndirectY},

	// LDX
	0xA2: {ldx, Immediate}, 0xA6: {ldx, ZeroPage}, 0xB6: {ldx, ZeroPageY},
	0xAE: {ldx, Absolute}, 0xBE: {ldx, AbsoluteY},

	// LDY
	0xA0: {ldy, Immediate}, 0xA4: {ldy, ZeroPage}, 0xB4: {ldy, ZeroPageX},
	0xAC: {ldy, Absolute}, 0xBC: {ldy, AbsoluteX},

	// LSR
	0x4A: {lsr, Accumulator}, 0x46: {lsr, ZeroPage}, 0x56: {lsr, ZeroPageX},
	0x4E: {lsr, Absolute}, 0x5E: {lsr, AbsoluteX},

	// NOP (official)
	0xEA: {nop, Implied},

	// ORA
	0x09: {ora, Immediate}, 0x05: {ora, ZeroPage}, 0x15: {ora, ZeroPageX},
	0x0D: {ora, Absolute}, 0x1D: {ora, AbsoluteX}, 0x19: {ora, AbsoluteY},
	0x01: {ora, IndirectX}, 0x11: {ora, IndirectY},

	// Stack ops
	0x48: {pha, Implied}, 0x08: {php, Implied}, 0x68: {pla, Implied}, 0x28: {plp, Implied},

	// ROL
	0x2A: {rol, Accumulator}, 0x26: {rol, ZeroPage}, 0x36: {rol, ZeroPageX},
	0x2E: {rol, Absolute}, 0x3E: {rol, AbsoluteX},

	// ROR
	0x6A: {ror, Accumulator}, 0x66: {ror, ZeroPage}, 0x76: {ror, ZeroPageX},
	0x6E: {ror, Absolute}, 0x7E: {ror, AbsoluteX},

	// RTI / RTS
	0x40: {rti, Implied}, 0x60: {rts, Implied},

	// SBC
	0xE9: {sbc, Immediate}, 0xE5: {sbc, ZeroPage}, 0xF5: {sbc, ZeroPageX},
	0xED: {sbc, Absolute}, 0xFD: {sbc, AbsoluteX}, 0xF9: {sbc, AbsoluteY},
	0xE1: {sbc, IndirectX}, 0xF1: {sbc, IndirectY},
	0xEB: {sbcUnofficial, Immediate}, // documented illegal duplicate of SBC #imm

	// STA
	0x85: {sta, ZeroPage}, 0x95: {sta, ZeroPageX}, 0x8D: {sta, Absolute},
	0x9D: {sta, AbsoluteX}, 0x99: {sta, AbsoluteY}, 0x81: {sta, IndirectX}, 0x91: {sta, IndirectY},

	// STX / STY
	0x86: {stx, ZeroPage}, 0x96: {stx, ZeroPageY}, 0x8E: {stx, Absolute},
	0x84: {sty, ZeroPage}, 0x94: {sty, ZeroPageX}, 0x8C: {sty, Absolute},

	// Register transfers
	0xAA: {tax, Implied}, 0xA8: {tay, Implied}, 0xBA: {tsx, Implied},
	0x8A: {txa, Implied}, 0x9A: {txs, Implied}, 0x98: {tya, Implied},

	// Documented illegal NOPs: single-byte.
	0x1A: {nop, Implied}, 0x3A: {nop, Implied}, 0x5A: {nop, Implied},
	0x7A: {nop, Implied}, 0xDA: {nop, Implied}, 0xFA: {nop, Implied},

	// Documented illegal NOPs: zero page / zero page,X / immediate / absolute / absolute,X.
	0x04: {nop, ZeroPage}, 0x44: {nop, ZeroPage}, 0x64: {nop, ZeroPage},
	0x14: {nop, ZeroPageX}, 0x34: {nop, ZeroPageX}, 0x54: {nop, ZeroPageX},
	0x74: {nop, ZeroPageX}, 0xD4: {nop, ZeroPageX}, 0xF4: {nop, ZeroPageX},
	0x80: {nop, Immediate}, 0x82: {nop, Immediate}, 0x89: {nop, Immediate},
	0xC2: {nop, Immediate}, 0xE2: {nop, Immediate},
	0x0C: {nop, Absolute},
	0x1C: {nop, AbsoluteX}, 0x3C: {nop, AbsoluteX}, 0x5C: {nop, AbsoluteX},
	0x7C: {nop, AbsoluteX}, 0xDC: {nop, AbsoluteX}, 0xFC: {nop, AbsoluteX},

	// STP/KIL/JAM family: hangs the bus until reset.
	0x02: {stp, Implied}, 0x12: {stp, Implied}, 0x22: {stp, Implied}, 0x32: {stp, Implied},
	0x42: {stp, Implied}, 0x52: {stp, Implied}, 0x62: {stp, Implied}, 0x72: {stp, Implied},
	0x92: {stp, Implied}, 0xB2: {stp, Implied}, 0xD2: {stp, Implied}, 0xF2: {stp, Implied},
}
