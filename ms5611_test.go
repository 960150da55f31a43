package ms5611

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSensor(t *testing.T, mock *MockBus, options ...func(*MS5611)) *MS5611 {
	t.Helper()

	sensor, err := New(append([]func(*MS5611){WithBus(mock)}, options...)...)
	require.NoError(t, err)
	require.NoError(t, sensor.Initialize())

	return sensor
}

func TestInitialize(t *testing.T) {
	mock := NewMockBus()
	sensor, err := New(WithBus(mock))
	require.NoError(t, err)

	require.NoError(t, sensor.Initialize())

	assert.Equal(t, 1, mock.Resets())
	assert.Equal(t, []byte{cmdReset}, mock.Commands())
	assert.Equal(t, datasheetCal, sensor.Calibration())
}

func TestInitializeBusError(t *testing.T) {
	busErr := errors.New("i2c: device NACKed")

	mock := NewMockBus()
	mock.WriteErr = busErr

	sensor, err := New(WithBus(mock))
	require.NoError(t, err)

	err = sensor.Initialize()
	require.Error(t, err)
	assert.ErrorIs(t, err, busErr)
}

func TestInitializePROMReadError(t *testing.T) {
	busErr := errors.New("i2c: read timeout")

	mock := NewMockBus()
	mock.ReadErr = busErr

	sensor, err := New(WithBus(mock))
	require.NoError(t, err)

	err = sensor.Initialize()
	require.Error(t, err)
	assert.ErrorIs(t, err, busErr)

	// a failed initialization must keep all reads guarded
	_, err = sensor.ReadTemperature(false)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestReadBeforeInitialize(t *testing.T) {
	sensor, err := New(WithBus(NewMockBus()))
	require.NoError(t, err)

	_, err = sensor.ReadRawTemperature()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = sensor.ReadRawPressure()
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = sensor.ReadTemperature(false)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = sensor.ReadPressure(false)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = sensor.ReadMeasurement(false)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestConversionCommands(t *testing.T) {
	tests := []struct {
		name     string
		osr      OversamplingRate
		wantTemp byte
		wantPres byte
	}{
		{name: "ultra_low_power", osr: UltraLowPower, wantTemp: 0x50, wantPres: 0x40},
		{name: "low_power", osr: LowPower, wantTemp: 0x52, wantPres: 0x42},
		{name: "standard", osr: Standard, wantTemp: 0x54, wantPres: 0x44},
		{name: "high_res", osr: HighRes, wantTemp: 0x56, wantPres: 0x46},
		{name: "ultra_high_res", osr: UltraHighRes, wantTemp: 0x58, wantPres: 0x48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockBus()
			sensor := newTestSensor(t, mock, WithOversampling(tt.osr))

			rawTemp, err := sensor.ReadRawTemperature()
			require.NoError(t, err)
			assert.Equal(t, uint32(datasheetRawTemperature), rawTemp)

			rawPressure, err := sensor.ReadRawPressure()
			require.NoError(t, err)
			assert.Equal(t, uint32(datasheetRawPressure), rawPressure)

			commands := mock.Commands()
			require.Len(t, commands, 3) // reset plus two conversions
			assert.Equal(t, tt.wantTemp, commands[1])
			assert.Equal(t, tt.wantPres, commands[2])
		})
	}
}

func TestReadTemperature(t *testing.T) {
	sensor := newTestSensor(t, NewMockBus())

	temp, err := sensor.ReadTemperature(false)
	require.NoError(t, err)
	assert.Equal(t, 20.07, temp)
}

func TestReadPressure(t *testing.T) {
	sensor := newTestSensor(t, NewMockBus())

	pressure, err := sensor.ReadPressure(false)
	require.NoError(t, err)
	assert.Equal(t, int32(100009), pressure)
}

func TestReadMeasurement(t *testing.T) {
	sensor := newTestSensor(t, NewMockBus())

	m, err := sensor.ReadMeasurement(true)
	require.NoError(t, err)
	assert.Equal(t, 20.07, m.Temperature)
	assert.Equal(t, int32(100009), m.Pressure)
	assert.False(t, m.TimeStamp.IsZero())
	assert.Equal(t, "Temperature: 20.07°C, Pressure: 100009 Pa", m.String())
}

func TestCorrectedCompensationOption(t *testing.T) {
	mock := NewMockBus()
	mock.RawTemperature = uint32(datasheetCal.ReferenceTemperature)*256 + 100000

	faithful := newTestSensor(t, mock)
	temp, err := faithful.ReadTemperature(true)
	require.NoError(t, err)
	assert.Equal(t, 23.33, temp)

	corrected := newTestSensor(t, mock, WithCorrectedCompensation())
	temp, err = corrected.ReadTemperature(true)
	require.NoError(t, err)
	assert.Equal(t, 23.37, temp)

	temp2, _, _ := faithful.CorrectionTerms()
	assert.Equal(t, int32(4), temp2)
	temp2, _, _ = corrected.CorrectionTerms()
	assert.Equal(t, int32(0), temp2)
}

func TestReadPressureLowTemperature(t *testing.T) {
	mock := NewMockBus()
	mock.RawTemperature = uint32(datasheetCal.ReferenceTemperature)*256 - 1185247 // -20.00 °C

	sensor := newTestSensor(t, mock)

	_, err := sensor.ReadPressure(true)
	require.NoError(t, err)

	_, off2, sens2 := sensor.CorrectionTerms()
	assert.Equal(t, int64(41750000), off2)
	assert.Equal(t, int64(21375000), sens2)
}

func TestReadBusError(t *testing.T) {
	busErr := errors.New("i2c: bus stuck")

	mock := NewMockBus()
	sensor := newTestSensor(t, mock)

	mock.WriteErr = busErr
	_, err := sensor.ReadPressure(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, busErr)
}

func TestSetOversampling(t *testing.T) {
	sensor, err := New(WithBus(NewMockBus()))
	require.NoError(t, err)

	assert.Equal(t, HighRes, sensor.Oversampling())

	require.NoError(t, sensor.SetOversampling(UltraHighRes))
	assert.Equal(t, UltraHighRes, sensor.Oversampling())

	assert.ErrorIs(t, sensor.SetOversampling(OversamplingRate(0x03)), ErrInvalidOversampling)
	assert.Equal(t, UltraHighRes, sensor.Oversampling())
}

func TestNewInvalidOversampling(t *testing.T) {
	_, err := New(WithBus(NewMockBus()), WithOversampling(OversamplingRate(0xFF)))
	assert.ErrorIs(t, err, ErrInvalidOversampling)
}

func TestWithAddress(t *testing.T) {
	// the mock only answers at the default address, so a sensor configured
	// for a different one must fail to initialize
	sensor, err := New(WithBus(NewMockBus()), WithAddress(0x76))
	require.NoError(t, err)

	assert.Error(t, sensor.Initialize())
}

func TestCloseLeavesCallerOwnedBusOpen(t *testing.T) {
	mock := NewMockBus()
	sensor := newTestSensor(t, mock)

	require.NoError(t, sensor.Close())
	assert.False(t, mock.Closed())
}
