package analysis

import "fmt"

// hardwareRegisters names the Tom and Jerry registers that GPU and DSP code
// usually touches. Both processors see the same address map.
var hardwareRegisters = map[uint32]string{
	// Tom: memory controller and video
	0xf00000: "MEMCON1",
	0xf00002: "MEMCON2",
	0xf00004: "HC",
	0xf00006: "VC",
	0xf00020: "OLP",
	0xf00026: "OBF",
	0xf00028: "VMODE",
	0xf0002a: "BORD1",
	0xf0002c: "BORD2",
	0xf0002e: "HP",
	0xf00030: "HBB",
	0xf00032: "HBE",
	0xf00034: "HS",
	0xf00036: "HVS",
	0xf00038: "HDB1",
	0xf0003a: "HDB2",
	0xf0003c: "HDE",
	0xf0003e: "VP",
	0xf00040: "VBB",
	0xf00042: "VBE",
	0xf00044: "VS",
	0xf00046: "VDB",
	0xf00048: "VDE",
	0xf0004a: "VEB",
	0xf0004c: "VEE",
	0xf0004e: "VI",
	0xf00050: "PIT0",
	0xf00052: "PIT1",
	0xf00054: "HEQ",
	0xf00058: "BG",
	0xf000e0: "INT1",
	0xf000e2: "INT2",
	0xf00400: "CLUT",
	0xf00800: "LBUFA",
	0xf01000: "LBUFB",
	0xf01800: "LBUFC",

	// Tom: GPU control
	0xf02100: "G_FLAGS",
	0xf02104: "G_MTXC",
	0xf02108: "G_MTXA",
	0xf0210c: "G_END",
	0xf02110: "G_PC",
	0xf02114: "G_CTRL",
	0xf02118: "G_HIDATA",
	0xf0211c: "G_REMAIN",

	// Tom: blitter
	0xf02200: "A1_BASE",
	0xf02204: "A1_FLAGS",
	0xf02208: "A1_CLIP",
	0xf0220c: "A1_PIXEL",
	0xf02210: "A1_STEP",
	0xf02214: "A1_FSTEP",
	0xf02218: "A1_FPIXEL",
	0xf0221c: "A1_INC",
	0xf02220: "A1_FINC",
	0xf02224: "A2_BASE",
	0xf02228: "A2_FLAGS",
	0xf0222c: "A2_MASK",
	0xf02230: "A2_PIXEL",
	0xf02234: "A2_STEP",
	0xf02238: "B_CMD",
	0xf0223c: "B_COUNT",
	0xf02240: "B_SRCD",
	0xf02248: "B_DSTD",
	0xf02250: "B_DSTZ",
	0xf02258: "B_SRCZ1",
	0xf02260: "B_SRCZ2",
	0xf02268: "B_PATD",
	0xf02270: "B_IINC",
	0xf02274: "B_ZINC",
	0xf02278: "B_STOP",
	0xf0227c: "B_I3",
	0xf02280: "B_I2",
	0xf02284: "B_I1",
	0xf02288: "B_I0",
	0xf0228c: "B_Z3",
	0xf02290: "B_Z2",
	0xf02294: "B_Z1",
	0xf02298: "B_Z0",

	// Jerry: timers, UART, joystick
	0xf10000: "JPIT1",
	0xf10002: "JPIT2",
	0xf10004: "JPIT3",
	0xf10006: "JPIT4",
	0xf10010: "CLK1",
	0xf10012: "CLK2",
	0xf10014: "CLK3",
	0xf10020: "JINTCTRL",
	0xf10030: "ASIDATA",
	0xf10032: "ASICTRL",
	0xf10034: "ASICLK",
	0xf14000: "JOYSTICK",
	0xf14002: "JOYBUTS",

	// Jerry: DSP control and I2S
	0xf1a100: "D_FLAGS",
	0xf1a104: "D_MTXC",
	0xf1a108: "D_MTXA",
	0xf1a10c: "D_END",
	0xf1a110: "D_PC",
	0xf1a114: "D_CTRL",
	0xf1a118: "D_MOD",
	0xf1a11c: "D_REMAIN",
	0xf1a120: "D_MACHI",
	0xf1a148: "LTXD",
	0xf1a14c: "RTXD",
	0xf1a150: "SCLK",
	0xf1a154: "SMODE",
}

// Local RAM windows.
const (
	gpuRAMStart = 0xf03000
	gpuRAMEnd   = 0xf04000
	dspRAMStart = 0xf1b000
	dspRAMEnd   = 0xf1d000
)

// HardwareRegister returns the name of the register at addr.
func HardwareRegister(addr uint32) (string, bool) {
	name, ok := hardwareRegisters[addr]
	return name, ok
}

// DescribeAddress names addr as a hardware register or as an offset into
// GPU or DSP local RAM.
func DescribeAddress(addr uint32) (string, bool) {
	if name, ok := HardwareRegister(addr); ok {
		return name, true
	}
	switch {
	case addr == gpuRAMStart:
		return "G_RAM", true
	case addr > gpuRAMStart && addr < gpuRAMEnd:
		return fmt.Sprintf("G_RAM+$%x", addr-gpuRAMStart), true
	case addr == dspRAMStart:
		return "D_RAM", true
	case addr > dspRAMStart && addr < dspRAMEnd:
		return fmt.Sprintf("D_RAM+$%x", addr-dspRAMStart), true
	}
	return "", false
}

// InLocalRAM reports whether addr lies in GPU or DSP local RAM.
func InLocalRAM(addr uint32) bool {
	return (addr >= gpuRAMStart && addr < gpuRAMEnd) || (addr >= dspRAMStart && addr < dspRAMEnd)
}

// IsHardware reports whether addr lies in the Tom or Jerry register space.
func IsHardware(addr uint32) bool {
	return addr >= 0xf00000 && addr < 0xf20000 && !InLocalRAM(addr)
}
