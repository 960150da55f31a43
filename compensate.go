package ms5611

import "math"

// StandardSeaLevelPressure is the ISA mean sea-level pressure in Pascal
const StandardSeaLevelPressure = 101325.0

// temperatureDelta returns dT, the signed difference between the raw
// temperature code and the coefficient-derived reference
func temperatureDelta(rawTemp uint32, cal Calibration) int32 {
	return int32(rawTemp - uint32(cal.ReferenceTemperature)*256)
}

// compensateTemperature converts a raw temperature code into degrees Celsius.
// The base value is in hundredths of a degree; the second-order correction
// term (dT^2/2^31) is returned alongside the result. With corrected set, the
// correction only applies below 20.00 °C as per AN520; otherwise it is
// applied on every compensated call, the behavior the common Arduino drivers
// exhibit (their guard tests the correction term they just cleared, which
// always passes).
func compensateTemperature(rawTemp uint32, cal Calibration, compensate, corrected bool) (float64, int32) {

	dT := int64(temperatureDelta(rawTemp, cal))
	temp := 2000 + dT*int64(cal.TempCoeffTemperature)/(1<<23)

	var temp2 int64
	if compensate {
		if !corrected || temp < 2000 {
			temp2 = dT * dT / (1 << 31)
		}
	}
	temp -= temp2

	return float64(temp) / 100, int32(temp2)
}

// compensatePressure converts a raw pressure code (plus the raw temperature
// code it was sampled with) into Pascal. All intermediates are 64-bit signed;
// the low-temperature correction terms can reach ~2^40 before scaling. The
// applied offset / sensitivity correction terms are returned alongside the
// result.
func compensatePressure(rawPressure, rawTemp uint32, cal Calibration, compensate bool) (int32, int64, int64) {

	dT := int64(temperatureDelta(rawTemp, cal))

	off := int64(cal.PressureOffset)*65536 + int64(cal.TempCoeffOffset)*dT/128
	sens := int64(cal.PressureSensitivity)*32768 + int64(cal.TempCoeffSensitivity)*dT/256

	var off2, sens2 int64
	if compensate {
		temp := 2000 + dT*int64(cal.TempCoeffTemperature)/(1<<23)

		if temp < 2000 {
			off2 = 5 * (temp - 2000) * (temp - 2000) / 2
			sens2 = 5 * (temp - 2000) * (temp - 2000) / 4
		}
		if temp < -1500 {
			off2 += 7 * (temp + 1500) * (temp + 1500)
			sens2 += 11 * (temp + 1500) * (temp + 1500) / 2
		}

		off -= off2
		sens -= sens2
	}

	pressure := int32((int64(rawPressure)*sens/(1<<21) - off) / (1 << 15))

	return pressure, off2, sens2
}

// Altitude converts a pressure reading into an altitude estimate using the
// standard barometric formula. Both pressures must be in the same unit.
func Altitude(pressure, seaLevelPressure float64) float64 {
	return 44330.0 * (1.0 - math.Pow(pressure/seaLevelPressure, 0.1902949))
}

// SeaLevelPressure converts a pressure reading at a known altitude into the
// equivalent pressure at sea level, the inverse of Altitude()
func SeaLevelPressure(pressure, altitude float64) float64 {
	return pressure / math.Pow(1.0-altitude/44330.0, 5.255)
}
