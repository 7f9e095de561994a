package report

// ScatterPoint is one zenith/power sample of the reference chart
type ScatterPoint struct {
	ZenithAngle float64 `json:"zenith_angle"`
	Power       float64 `json:"power"`
	Radiation   float64 `json:"radiation"`
	Color       string  `json:"color"`
	Size        float64 `json:"size"`
}

// ScatterPlot is the reference dataset of power against zenith angle,
// coloured by radiation
type ScatterPlot struct {
	ZenithAngles    []float64      `json:"zenith_angles"`
	PowerValues     []float64      `json:"power_values"`
	RadiationValues []float64      `json:"radiation_values"`
	Points          []ScatterPoint `json:"points"`
}

var (
	zenithAngles = []float64{
		10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70, 75, 80, 85, 90, 95,
		100, 105, 110, 115, 120,
	}
	powerValues = []float64{
		2800, 2600, 2400, 2200, 2000, 1800, 1600, 1400, 1200, 1000, 800, 600, 400,
		200, 100, 50, 0, -100, -200, -300, -500, -700, -1000,
	}
	radiationValues = []float64{
		800, 750, 700, 650, 600, 550, 500, 450, 400, 350, 300, 250, 200, 150, 100,
		80, 60, 40, 30, 20, 10, 5, 0,
	}
)

// ReferenceScatterPlot returns the chart data with colour and size
// resolved per point
func ReferenceScatterPlot() ScatterPlot {
	plot := ScatterPlot{
		ZenithAngles:    append([]float64(nil), zenithAngles...),
		PowerValues:     append([]float64(nil), powerValues...),
		RadiationValues: append([]float64(nil), radiationValues...),
		Points:          make([]ScatterPoint, len(zenithAngles)),
	}
	for i := range zenithAngles {
		r := radiationValues[i]
		plot.Points[i] = ScatterPoint{
			ZenithAngle: zenithAngles[i],
			Power:       powerValues[i],
			Radiation:   r,
			Color:       PointColor(r),
			Size:        PointSize(r),
		}
	}
	return plot
}
