package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Boardoza/ms5611"
	"github.com/kidoman/embd"
	_ "github.com/kidoman/embd/host/all"
)

func main() {

	// Parse command line options
	var configPath string
	cfg := Default()

	flag.StringVar(&configPath, "config", "", "path to YAML configuration file")
	flag.IntVar(&cfg.Bus, "bus", cfg.Bus, "I2C bus line the sensor is attached to")
	flag.StringVar(&cfg.Oversampling, "osr", cfg.Oversampling, "oversampling rate (ultra_low_power, low_power, standard, high_res, ultra_high_res)")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "time between reads")
	flag.Float64Var(&cfg.SeaLevelPressure, "sealevel", cfg.SeaLevelPressure, "reference sea-level pressure in Pa for altitude estimation")
	flag.BoolVar(&cfg.Compensate, "compensate", false, "apply second-order temperature compensation")
	flag.BoolVar(&cfg.Mock, "mock", false, "run against a simulated sensor instead of real hardware")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable verbose logging")
	flag.Parse()

	if configPath != "" {
		fileCfg, err := Load(configPath)
		if err != nil {
			ms5611.NewDefaultLogger(false).Fatalf("failed to load configuration: %s", err)
		}
		cfg = fileCfg
	}

	logger := ms5611.NewDefaultLogger(cfg.Debug)

	osr, err := ms5611.ParseOversamplingRate(cfg.Oversampling)
	if err != nil {
		logger.Fatalf("invalid oversampling rate: %s", err)
	}

	var bus ms5611.Bus
	if cfg.Mock {
		bus = ms5611.NewMockBus()
	} else {
		bus = embd.NewI2CBus(byte(cfg.Bus))
	}

	sensor, err := ms5611.New(
		ms5611.WithBus(bus),
		ms5611.WithAddress(byte(cfg.Address)),
		ms5611.WithOversampling(osr),
		ms5611.WithLogger(logger),
	)
	if err != nil {
		logger.Fatalf("failed to instantiate sensor: %s", err)
	}

	if err := sensor.Initialize(); err != nil {
		logger.Fatalf("failed to initialize sensor: %s", err)
	}
	logger.Infof("sensor initialized, calibration: %+v", sensor.Calibration())

	sigChan := make(chan os.Signal, 32)
	signal.Notify(sigChan, syscall.SIGTERM)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		logger.Infof("got signal, closing sensor")
		if err := bus.Close(); err != nil {
			logger.Errorf("failed to close bus: %s", err)
		}
		os.Exit(0)
	}()

	for {
		time.Sleep(cfg.Interval)

		m, err := sensor.ReadMeasurement(cfg.Compensate)
		if err != nil {
			logger.Errorf("error reading sensor: %s", err)
			continue
		}

		altitude := ms5611.Altitude(float64(m.Pressure), cfg.SeaLevelPressure)
		logger.Infof("%s, Altitude: %.1f m", m, altitude)
	}
}
