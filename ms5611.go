package ms5611

import (
	"errors"
	"fmt"
	"time"

	"github.com/kidoman/embd"
)

const (

	// DefaultAddress is the fixed 7-bit I2C address of the MS5611
	DefaultAddress = 0x77

	// command opcodes per the MS5611 datasheet; the conversion commands take
	// the oversampling rate code as an offset
	cmdADCRead   = 0x00
	cmdReset     = 0x1E
	cmdConvertD1 = 0x40 // pressure conversion
	cmdConvertD2 = 0x50 // temperature conversion
	cmdReadPROM  = 0xA2 // first of six 16-bit coefficient words

	// time for the sensor to reload its PROM after a reset
	resetSettleTime = 100 * time.Millisecond

	defaultI2CBusLine = 1
)

var (

	// ErrNotInitialized is returned when a read is attempted before a
	// successful Initialize(); the calibration coefficients would be all-zero
	// and every compensated output meaningless
	ErrNotInitialized = errors.New("ms5611: sensor not initialized")

	// ErrInvalidOversampling is returned for an oversampling rate outside the
	// five values the sensor supports
	ErrInvalidOversampling = errors.New("ms5611: invalid oversampling rate")
)

// MS5611 denotes a single MS5611 barometric pressure / temperature sensor on
// an I2C bus. Instances are not safe for concurrent use; callers sharing one
// across goroutines must serialize access.
type MS5611 struct {
	bus     Bus
	address byte
	ownsBus bool

	osr      OversamplingRate
	convTime time.Duration

	cal         Calibration
	initialized bool

	correctedCompensation bool

	// last second-order correction terms, kept for diagnostics only
	temperature2 int32
	offset2      int64
	sensitivity2 int64

	logger Logger
}

// New instantiates a new MS5611 struct, executing functional options, if any
func New(options ...func(*MS5611)) (*MS5611, error) {

	// Initialize a new instance of an MS5611
	d := &MS5611{
		address: DefaultAddress,
		osr:     HighRes,
		logger:  &NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(d)
	}

	if err := d.SetOversampling(d.osr); err != nil {
		return nil, err
	}

	// Open the default I2C bus (if not provided as option)
	if d.bus == nil {
		d.bus = embd.NewI2CBus(defaultI2CBusLine)
		d.ownsBus = true
	}

	return d, nil
}

// Initialize resets the sensor, waits for the PROM reload to complete and
// reads the factory calibration coefficients. It must complete successfully
// before any read call.
func (d *MS5611) Initialize() error {

	if err := d.Reset(); err != nil {
		return fmt.Errorf("failed to reset sensor: %w", err)
	}

	time.Sleep(resetSettleTime)

	if err := d.readCalibration(); err != nil {
		return fmt.Errorf("failed to read calibration PROM: %w", err)
	}

	d.initialized = true
	d.logger.Debugf("initialized sensor at 0x%02X (oversampling %s, calibration %+v)", d.address, d.osr, d.cal)

	return nil
}

// Reset writes the reset command, causing the sensor to reload its internal
// calibration PROM
func (d *MS5611) Reset() error {
	return d.bus.WriteByte(d.address, cmdReset)
}

// SetOversampling sets the oversampling rate used for subsequent conversions
func (d *MS5611) SetOversampling(osr OversamplingRate) error {
	if !osr.valid() {
		return ErrInvalidOversampling
	}

	d.osr = osr
	d.convTime = osr.ConversionTime()

	return nil
}

// Oversampling returns the currently configured oversampling rate
func (d *MS5611) Oversampling() OversamplingRate {
	return d.osr
}

// Calibration returns the factory calibration coefficients read during
// Initialize(), for diagnostic purposes
func (d *MS5611) Calibration() Calibration {
	return d.cal
}

// CorrectionTerms returns the second-order correction terms computed during
// the most recent compensated read, for diagnostic purposes
func (d *MS5611) CorrectionTerms() (temperature2 int32, offset2, sensitivity2 int64) {
	return d.temperature2, d.offset2, d.sensitivity2
}

// ReadRawTemperature triggers a temperature conversion (D2) at the current
// oversampling rate and returns the raw 24-bit ADC code
func (d *MS5611) ReadRawTemperature() (uint32, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	return d.convert(cmdConvertD2)
}

// ReadRawPressure triggers a pressure conversion (D1) at the current
// oversampling rate and returns the raw 24-bit ADC code
func (d *MS5611) ReadRawPressure() (uint32, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	return d.convert(cmdConvertD1)
}

// ReadTemperature performs a temperature conversion and returns the
// calibrated temperature in degrees Celsius. If compensate is set, the
// second-order correction term is applied (see WithCorrectedCompensation for
// the exact gating semantics).
func (d *MS5611) ReadTemperature(compensate bool) (float64, error) {

	if !d.initialized {
		return 0, ErrNotInitialized
	}

	rawTemp, err := d.convert(cmdConvertD2)
	if err != nil {
		return 0, err
	}

	temp, temp2 := compensateTemperature(rawTemp, d.cal, compensate, d.correctedCompensation)
	d.temperature2 = temp2

	return temp, nil
}

// ReadPressure performs a pressure and a temperature conversion and returns
// the calibrated pressure in Pascal. If compensate is set, the second-order
// low-temperature corrections from the datasheet are applied.
func (d *MS5611) ReadPressure(compensate bool) (int32, error) {

	if !d.initialized {
		return 0, ErrNotInitialized
	}

	rawPressure, err := d.convert(cmdConvertD1)
	if err != nil {
		return 0, err
	}
	rawTemp, err := d.convert(cmdConvertD2)
	if err != nil {
		return 0, err
	}

	pressure, off2, sens2 := compensatePressure(rawPressure, rawTemp, d.cal, compensate)
	d.offset2, d.sensitivity2 = off2, sens2

	return pressure, nil
}

// ReadMeasurement performs one pressure and one temperature conversion and
// computes both calibrated outputs from the same sample pair
func (d *MS5611) ReadMeasurement(compensate bool) (*Measurement, error) {

	if !d.initialized {
		return nil, ErrNotInitialized
	}

	rawPressure, err := d.convert(cmdConvertD1)
	if err != nil {
		return nil, err
	}
	rawTemp, err := d.convert(cmdConvertD2)
	if err != nil {
		return nil, err
	}

	temp, temp2 := compensateTemperature(rawTemp, d.cal, compensate, d.correctedCompensation)
	pressure, off2, sens2 := compensatePressure(rawPressure, rawTemp, d.cal, compensate)
	d.temperature2, d.offset2, d.sensitivity2 = temp2, off2, sens2

	return &Measurement{
		TimeStamp:   time.Now(),
		Temperature: temp,
		Pressure:    pressure,
	}, nil
}

// Close releases the underlying bus if it was opened by this instance
func (d *MS5611) Close() error {
	if d.ownsBus {
		return d.bus.Close()
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// convert issues a conversion command, waits out the datasheet conversion
// time for the current oversampling rate and fetches the ADC result. The
// wait is mandatory: the sensor has no ready flag and answers an early read
// with whatever the ADC register currently holds.
func (d *MS5611) convert(baseCmd byte) (uint32, error) {

	if err := d.bus.WriteByte(d.address, baseCmd+byte(d.osr)); err != nil {
		return 0, fmt.Errorf("failed to trigger conversion 0x%02X: %w", baseCmd+byte(d.osr), err)
	}

	time.Sleep(d.convTime)

	return d.readRegister24(cmdADCRead)
}

// readCalibration reads the six factory coefficients from their sequential
// PROM addresses
func (d *MS5611) readCalibration() error {

	var words [6]uint16
	for i := range words {
		word, err := d.readRegister16(cmdReadPROM + byte(2*i))
		if err != nil {
			return fmt.Errorf("failed to read PROM word %d: %w", i, err)
		}
		words[i] = word
	}

	d.cal = Calibration{
		PressureSensitivity:  words[0],
		PressureOffset:       words[1],
		TempCoeffSensitivity: words[2],
		TempCoeffOffset:      words[3],
		ReferenceTemperature: words[4],
		TempCoeffTemperature: words[5],
	}

	return nil
}

func (d *MS5611) readRegister16(reg byte) (uint16, error) {
	buf := make([]byte, 2)
	if err := d.bus.ReadFromReg(d.address, reg, buf); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (d *MS5611) readRegister24(reg byte) (uint32, error) {
	buf := make([]byte, 3)
	if err := d.bus.ReadFromReg(d.address, reg, buf); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}
