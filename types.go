package ms5611

import (
	"fmt"
	"time"
)

// OversamplingRate selects the conversion resolution of the sensor's ADC. The
// value doubles as the rate code added to the conversion command opcode.
// Higher rates take longer to convert but yield more precise readings.
type OversamplingRate byte

const (

	// UltraLowPower converts in 1 ms (OSR 256)
	UltraLowPower OversamplingRate = 0x00

	// LowPower converts in 2 ms (OSR 512)
	LowPower OversamplingRate = 0x02

	// Standard converts in 3 ms (OSR 1024)
	Standard OversamplingRate = 0x04

	// HighRes converts in 5 ms (OSR 2048)
	HighRes OversamplingRate = 0x06

	// UltraHighRes converts in 10 ms (OSR 4096)
	UltraHighRes OversamplingRate = 0x08
)

// ConversionTime returns how long the ADC needs to finish a conversion at
// this rate. The sensor exposes no ready flag, so reading the ADC register
// before this much time has passed yields a stale or truncated result.
func (o OversamplingRate) ConversionTime() time.Duration {
	switch o {
	case UltraLowPower:
		return 1 * time.Millisecond
	case LowPower:
		return 2 * time.Millisecond
	case Standard:
		return 3 * time.Millisecond
	case HighRes:
		return 5 * time.Millisecond
	case UltraHighRes:
		return 10 * time.Millisecond
	}
	return 0
}

// String fulfils the Stringer interface
func (o OversamplingRate) String() string {
	switch o {
	case UltraLowPower:
		return "ultra_low_power"
	case LowPower:
		return "low_power"
	case Standard:
		return "standard"
	case HighRes:
		return "high_res"
	case UltraHighRes:
		return "ultra_high_res"
	}
	return fmt.Sprintf("OversamplingRate(0x%02X)", byte(o))
}

// ParseOversamplingRate converts a rate name as used in configuration files
// and command line flags into an OversamplingRate
func ParseOversamplingRate(s string) (OversamplingRate, error) {
	switch s {
	case "ultra_low_power":
		return UltraLowPower, nil
	case "low_power":
		return LowPower, nil
	case "standard":
		return Standard, nil
	case "high_res":
		return HighRes, nil
	case "ultra_high_res":
		return UltraHighRes, nil
	}
	return 0, fmt.Errorf("invalid oversampling rate `%s`", s)
}

func (o OversamplingRate) valid() bool {
	return o.ConversionTime() != 0
}

// Calibration holds the six factory coefficients read from the sensor's PROM
// during initialization (C1-C6 in the datasheet). They are immutable for the
// session once populated.
type Calibration struct {
	PressureSensitivity  uint16 // C1 (SENS_T1)
	PressureOffset       uint16 // C2 (OFF_T1)
	TempCoeffSensitivity uint16 // C3 (TCS)
	TempCoeffOffset      uint16 // C4 (TCO)
	ReferenceTemperature uint16 // C5 (T_REF)
	TempCoeffTemperature uint16 // C6 (TEMPSENS)
}

// Measurement denotes a compensated pressure/temperature reading at a certain
// point in time
type Measurement struct {
	TimeStamp   time.Time
	Temperature float64 // degrees Celsius
	Pressure    int32   // Pascal
}

// String fulfils the Stringer interface
func (m *Measurement) String() string {
	return fmt.Sprintf("Temperature: %.2f°C, Pressure: %d Pa", m.Temperature, m.Pressure)
}
