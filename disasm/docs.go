package disasm

type OpDoc struct {
	Short    string
	Long     string
	Formulae string
}

var OpDocs = map[string]OpDoc{
	"JMP": {Short: "Conditional jump",
		Long: "Set the program counter to ADDR if CONDITION is true, otherwise no " +
			"operation. 'x--' and 'y--' test the register before decrementing it, " +
			"and always decrement. 'pin' tests the pin selected by the JMP pin config.",
		Formulae: "CONDITION ? PC = ADDR",
	},
	"WAIT": {Short: "Stall until a condition is met",
		Long: "Stall until SOURCE[INDEX] has level POLARITY. Side-set is still " +
			"asserted while stalled, the delay only starts once the wait completes.",
		Formulae: "while SOURCE[INDEX] != POLARITY",
	},
	"IN": {Short: "Shift into ISR",
		Long: "Shift BIT_COUNT bits from SOURCE into the input shift register. " +
			"A bit count of 0 means 32.",
		Formulae: "ISR <<= SOURCE[BIT_COUNT]",
	},
	"OUT": {Short: "Shift out of OSR",
		Long: "Shift BIT_COUNT bits out of the output shift register and write them " +
			"to DESTINATION. A bit count of 0 means 32.",
		Formulae: "DESTINATION = OSR[BIT_COUNT]",
	},
	"PUSH": {Short: "Push ISR to the RX FIFO",
		Long: "Push the contents of ISR into the RX FIFO and clear ISR. With 'block' " +
			"the state machine stalls while the FIFO is full.",
		Formulae: "RXFIFO <- ISR, ISR = 0",
	},
	"PULL": {Short: "Pull the TX FIFO into OSR",
		Long: "Load a 32 bit word from the TX FIFO into OSR. With 'block' the state " +
			"machine stalls while the FIFO is empty, otherwise X is copied to OSR.",
		Formulae: "OSR <- TXFIFO",
	},
	"MOV": {Short: "Copy",
		Long: "Copy SOURCE to DESTINATION, optionally inverted (!) or bit reversed (::).",
		Formulae: "DESTINATION = OP(SOURCE)",
	},
	"NOP": {Short: "No operation",
		Long:     "Assembled as 'mov y, y'. Useful for side-set and delay only.",
		Formulae: "",
	},
	"IRQ": {Short: "Set or clear an IRQ flag",
		Long:     "Set or clear IRQ flag INDEX, optionally waiting for it to be cleared. Not simulated.",
		Formulae: "IRQ[INDEX] = 1",
	},
	"SET": {Short: "Write immediate",
		Long:     "Write the 5 bit DATA to DESTINATION.",
		Formulae: "DESTINATION = DATA",
	},
}
