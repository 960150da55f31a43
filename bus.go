package ms5611

import "github.com/kidoman/embd"

// Bus denotes the register-oriented serial transport the driver talks
// through. It is the subset of embd.I2CBus the MS5611 protocol needs, so a
// Linux I2C bus obtained via embd.NewI2CBus() can be passed in directly.
// Implementations are expected to be synchronous; any transport-level timeout
// is their responsibility.
type Bus interface {

	// WriteByte writes a single command byte to the device at addr
	WriteByte(addr, value byte) error

	// ReadFromReg writes the register address byte to the device at addr,
	// then reads len(value) bytes into value
	ReadFromReg(addr, reg byte, value []byte) error

	// Close releases the bus
	Close() error
}

// Ensure an embd I2C bus fulfils the Bus interface.
var _ Bus = embd.I2CBus(nil)

// Ensure MockBus fulfils the Bus interface.
var _ Bus = (*MockBus)(nil)
