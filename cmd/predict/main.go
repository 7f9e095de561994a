package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Alias1177/SolarPredictor/internal/app"
	"github.com/Alias1177/SolarPredictor/internal/config"
	"github.com/Alias1177/SolarPredictor/internal/export"
	"github.com/Alias1177/SolarPredictor/internal/report"
	"github.com/Alias1177/SolarPredictor/internal/validation"
	"github.com/rs/zerolog/log"
)

// optionalFloat is a float flag that remembers whether it was set
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	if s == "" {
		f.value = nil
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	app.SetupLogging(cfg.LogLevel)

	form := validation.DefaultForm(cfg)
	lat := &optionalFloat{value: form.Latitude}
	lon := &optionalFloat{value: form.Longitude}
	irradiance := &optionalFloat{value: form.Irradiance}
	azimuth := &optionalFloat{value: form.Azimuth}
	zenith := &optionalFloat{value: form.Zenith}
	aoi := &optionalFloat{value: form.AngleOfIncidence}

	location := flag.String("location", form.Location, "Location name (optional)")
	flag.Var(lat, "lat", "Latitude in decimal degrees, empty to omit")
	flag.Var(lon, "lon", "Longitude in decimal degrees, empty to omit")
	flag.Var(irradiance, "irradiance", "Shortwave radiation in W/m² (0-1400)")
	flag.Var(azimuth, "azimuth", "Panel azimuth angle in degrees (0-360)")
	flag.Var(zenith, "zenith", "Sun zenith angle in degrees")
	flag.Var(aoi, "aoi", "Angle of incidence in degrees")
	profileName := flag.String("profile", cfg.ValidationProfile, "Validation profile: wide or strict")
	exportFormat := flag.String("export", "", "Also export the dashboard record: csv or json")
	outDir := flag.String("out", cfg.ExportDir, "Directory for --export files")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Solar power prediction

Usage:
  predict --location "Pune, India" --lat 18.52 --lon 73.86 --irradiance 650
  predict --zenith 30 --aoi 20 --export json --out ./exports

Flags:
`)
		flag.PrintDefaults()
	}
	flag.Parse()

	profile, err := validation.ProfileByName(*profileName)
	if err != nil {
		fatalf("%v", err)
	}

	input, err := validation.Validate(validation.Form{
		Location:         *location,
		Latitude:         lat.value,
		Longitude:        lon.value,
		Irradiance:       irradiance.value,
		Azimuth:          azimuth.value,
		Zenith:           zenith.value,
		AngleOfIncidence: aoi.value,
	}, profile)
	if err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				fmt.Fprintf(os.Stderr, "  %s\n", fe.Message)
			}
			os.Exit(2)
		}
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, cfg, app.NewPredictorClient(cfg))
	defer a.Close()

	if _, err := a.Gateway.Submit(ctx, input); err != nil {
		fmt.Fprintln(os.Stderr, report.DashboardMessage(a.Gateway.Snapshot()))
		a.Close()
		os.Exit(1)
	}

	fmt.Println(report.DashboardMessage(a.Gateway.Snapshot()))

	if *exportFormat != "" {
		format, err := export.ParseFormat(*exportFormat)
		if err != nil {
			fatalf("%v", err)
		}
		payload, err := a.Gateway.ExportData(string(format))
		if err != nil {
			fatalf("Export failed: %v", err)
		}
		path, err := export.Save(export.DirSaver{Dir: *outDir}, format, payload)
		if err != nil {
			fatalf("Export failed: %v", err)
		}
		fmt.Printf("Exported to %s\n", path)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
