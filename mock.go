package ms5611

import (
	"fmt"
	"sync"
)

// MockBus simulates the MS5611 register protocol for testing and development.
// It answers PROM reads from Coefficients and ADC reads from RawPressure /
// RawTemperature depending on the last conversion command written, and keeps
// a trace of all command bytes it has seen. The zero value is not usable;
// create instances via NewMockBus.
type MockBus struct {
	mu sync.Mutex

	// Coefficients holds the six PROM calibration words (C1-C6)
	Coefficients [6]uint16

	// RawPressure / RawTemperature are the 24-bit ADC codes returned after a
	// D1 / D2 conversion, respectively
	RawPressure    uint32
	RawTemperature uint32

	// WriteErr / ReadErr, if set, are returned by the respective bus calls
	// to simulate transport failures
	WriteErr error
	ReadErr  error

	commands []byte
	resets   int
	pending  byte
	closed   bool
}

// NewMockBus creates a mock sensor preloaded with the worked example from the
// MS5611 datasheet (20.07 °C, 100009 Pa uncompensated)
func NewMockBus() *MockBus {
	return &MockBus{
		Coefficients:   [6]uint16{40127, 36924, 23317, 23282, 33464, 28312},
		RawPressure:    9085466,
		RawTemperature: 8569150,
	}
}

// WriteByte records a command byte written to the device
func (m *MockBus) WriteByte(addr, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	if addr != DefaultAddress {
		return fmt.Errorf("mock: no device at address 0x%02X", addr)
	}

	m.commands = append(m.commands, value)
	switch {
	case value == cmdReset:
		m.resets++
	case value&0xF0 == cmdConvertD1 || value&0xF0 == cmdConvertD2:
		m.pending = value
	}

	return nil
}

// ReadFromReg answers a register read with PROM or ADC data
func (m *MockBus) ReadFromReg(addr, reg byte, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return m.ReadErr
	}
	if addr != DefaultAddress {
		return fmt.Errorf("mock: no device at address 0x%02X", addr)
	}

	switch {
	case reg == cmdADCRead:
		if len(value) != 3 {
			return fmt.Errorf("mock: ADC read wants 3 bytes, got request for %d", len(value))
		}
		code := m.RawTemperature
		if m.pending&0xF0 == cmdConvertD1 {
			code = m.RawPressure
		}
		value[0] = byte(code >> 16)
		value[1] = byte(code >> 8)
		value[2] = byte(code)

	case reg >= cmdReadPROM && reg < cmdReadPROM+12 && (reg-cmdReadPROM)%2 == 0:
		if len(value) != 2 {
			return fmt.Errorf("mock: PROM read wants 2 bytes, got request for %d", len(value))
		}
		word := m.Coefficients[(reg-cmdReadPROM)/2]
		value[0] = byte(word >> 8)
		value[1] = byte(word)

	default:
		return fmt.Errorf("mock: read from unknown register 0x%02X", reg)
	}

	return nil
}

// Close marks the bus as closed
func (m *MockBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Commands returns the trace of command bytes written so far
func (m *MockBus) Commands() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.commands...)
}

// Resets returns how many reset commands the device has seen
func (m *MockBus) Resets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets
}

// Closed reports whether Close has been called
func (m *MockBus) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
