package ms5611

// WithBus sets the I2C bus the sensor is attached to
func WithBus(bus Bus) func(*MS5611) {
	return func(d *MS5611) {
		d.bus = bus
	}
}

// WithAddress sets a non-default I2C device address
func WithAddress(address byte) func(*MS5611) {
	return func(d *MS5611) {
		d.address = address
	}
}

// WithOversampling sets the initial oversampling rate
func WithOversampling(osr OversamplingRate) func(*MS5611) {
	return func(d *MS5611) {
		d.osr = osr
	}
}

// WithCorrectedCompensation applies the second-order temperature correction
// only below 20.00 °C, per application note AN520. Without this option the
// correction is applied on every compensated read, matching the behavior of
// the common Arduino MS5611 drivers (whose guard compares the correction term
// it just cleared and therefore always passes).
func WithCorrectedCompensation() func(*MS5611) {
	return func(d *MS5611) {
		d.correctedCompensation = true
	}
}

// WithLogger sets a logger
func WithLogger(logger Logger) func(*MS5611) {
	return func(d *MS5611) {
		d.logger = logger
	}
}
