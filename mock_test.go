package ms5611

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockBusPROMWords(t *testing.T) {
	mock := NewMockBus()

	for i := 0; i < 6; i++ {
		buf := make([]byte, 2)
		require.NoError(t, mock.ReadFromReg(DefaultAddress, cmdReadPROM+byte(2*i), buf))
		assert.Equal(t, mock.Coefficients[i], uint16(buf[0])<<8|uint16(buf[1]), "PROM word %d", i)
	}
}

func TestMockBusADCFollowsConversion(t *testing.T) {
	mock := NewMockBus()
	buf := make([]byte, 3)

	require.NoError(t, mock.WriteByte(DefaultAddress, cmdConvertD1|byte(HighRes)))
	require.NoError(t, mock.ReadFromReg(DefaultAddress, cmdADCRead, buf))
	assert.Equal(t, mock.RawPressure, uint32(buf[0])<<16|uint32(buf[1])<<8|uint32(buf[2]))

	require.NoError(t, mock.WriteByte(DefaultAddress, cmdConvertD2|byte(HighRes)))
	require.NoError(t, mock.ReadFromReg(DefaultAddress, cmdADCRead, buf))
	assert.Equal(t, mock.RawTemperature, uint32(buf[0])<<16|uint32(buf[1])<<8|uint32(buf[2]))
}

func TestMockBusRejectsUnknownAccess(t *testing.T) {
	mock := NewMockBus()

	assert.Error(t, mock.WriteByte(0x76, cmdReset))
	assert.Error(t, mock.ReadFromReg(0x76, cmdADCRead, make([]byte, 3)))

	// odd / out-of-range PROM registers
	assert.Error(t, mock.ReadFromReg(DefaultAddress, cmdReadPROM+1, make([]byte, 2)))
	assert.Error(t, mock.ReadFromReg(DefaultAddress, cmdReadPROM+12, make([]byte, 2)))

	// wrong read lengths
	assert.Error(t, mock.ReadFromReg(DefaultAddress, cmdADCRead, make([]byte, 2)))
	assert.Error(t, mock.ReadFromReg(DefaultAddress, cmdReadPROM, make([]byte, 3)))
}

func TestMockBusClose(t *testing.T) {
	mock := NewMockBus()
	assert.False(t, mock.Closed())
	require.NoError(t, mock.Close())
	assert.True(t, mock.Closed())
}
