package lasersim

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/rmonterde/fieldops/internal/log"
	"github.com/rmonterde/fieldops/optics"
)

// fallbackFocalMM approximates the train focal length when no ray data
// is available for the spot estimate.
const fallbackFocalMM = 100.0

var (
	bannerColor = color.New(color.FgCyan, color.Bold)
	actionColor = color.New(color.FgYellow)
	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
	endColor    = color.New(color.FgCyan)
)

// Session is the interactive bench loop. It owns the laser parameters
// and the optical train variant being traced.
type Session struct {
	params      Params
	out         io.Writer
	logger      zerolog.Logger
	pump        *optics.System
	bare        *optics.System
	crystal     bool
	profilePath string
}

// Option adjusts a Session before the loop starts.
type Option func(*Session)

// WithParams replaces the laser parameters.
func WithParams(p Params) Option {
	return func(s *Session) { s.params = p }
}

// WithFrequency sets the initial spark frequency in Hz.
func WithFrequency(hz float64) Option {
	return func(s *Session) { s.params.Frequency = hz }
}

// WithoutCrystal starts the session on the bare cavity train.
func WithoutCrystal() Option {
	return func(s *Session) { s.crystal = false }
}

// WithProfilePath saves a y-z trace diagram to the given path after each
// simulation run.
func WithProfilePath(path string) Option {
	return func(s *Session) { s.profilePath = path }
}

// WithLogger replaces the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession builds a session with default parameters and the YAG
// crystal in place, writing all console output to out.
func NewSession(out io.Writer, opts ...Option) *Session {
	s := &Session{
		params:  DefaultParams(),
		out:     out,
		logger:  log.WithComponent("lasersim"),
		pump:    optics.DefaultPumpSystem(),
		bare:    optics.BareCavitySystem(),
		crystal: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) system() *optics.System {
	if s.crystal {
		return s.pump
	}
	return s.bare
}

// Run drives the command loop until "exit", end of input or context
// cancellation. Each iteration prints the current frequency and the
// option line, then reads one command. Unknown input just reprints the
// options.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	bannerColor.Fprintf(s.out, "Laser Simulation: Frequency set to %g Hz. Press 'b' to run simulation.\n", s.params.Frequency)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		fmt.Fprintf(s.out, "\nCurrent spark frequency: %g Hz\n", s.params.Frequency)
		fmt.Fprintln(s.out, "Options: 'b' to press button (run simulation), 'f <hz>' to set frequency, 'y' to toggle the YAG crystal, 'exit' to quit")
		fmt.Fprint(s.out, "> ")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("lasersim: reading input: %w", err)
					}
				default:
				}
				fmt.Fprintln(s.out)
				endColor.Fprintln(s.out, "Simulation ended.")
				return nil
			}
			if s.dispatch(line) {
				endColor.Fprintln(s.out, "Simulation ended.")
				return nil
			}
		}
	}
}

// dispatch handles one command line and reports whether the loop should
// end.
func (s *Session) dispatch(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "exit":
		return true
	case "b":
		s.fire()
	case "f":
		if len(fields) != 2 {
			errorColor.Fprintln(s.out, "Usage: f <hz>")
			return false
		}
		hz, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || hz <= 0 {
			errorColor.Fprintf(s.out, "Invalid frequency %q.\n", fields[1])
			return false
		}
		s.params.Frequency = hz
	case "y":
		s.crystal = !s.crystal
		if s.crystal {
			fmt.Fprintln(s.out, "YAG crystal inserted.")
		} else {
			fmt.Fprintln(s.out, "YAG crystal removed.")
		}
	}
	return false
}

// fire traces the current train, evaluates the thermal model and prints
// the result block.
func (s *Session) fire() {
	actionColor.Fprintln(s.out, "Button pressed: Activating laser and tracing rays...")

	sys := s.system()
	traces := sys.TraceGrid(optics.DefaultGridSize, optics.DefaultBeamRadius, optics.DefaultWavelength)
	spotMM := optics.SpotRadiusRMS(traces)
	if spotMM == 0 {
		actionColor.Fprintln(s.out, "Warning: no rays reached the image plane; estimating spot size analytically.")
		spotMM = optics.GaussianSpotRadius(optics.DefaultWavelength, fallbackFocalMM, 2*optics.DefaultBeamRadius)
	}
	s.logger.Debug().
		Int("rays", len(traces)).
		Float64("spot_mm", spotMM).
		Bool("crystal", s.crystal).
		Msg("trace complete")

	res, err := Evaluate(spotMM/1000, s.params)
	if err != nil {
		errorColor.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "\nSpot radius at image plane: %.6f mm\n", res.SpotRadiusMM)
	resultColor.Fprintf(s.out, "Required peak power to reach %g°C: %.2f W\n", s.params.TargetTemp, res.PeakPowerW)
	fmt.Fprintf(s.out, "Average power: %.2f W\n", res.AvgPowerW)
	fmt.Fprintf(s.out, "Calculated surface temperature: %.2f °C\n", res.SurfaceTempC)
	fmt.Fprintf(s.out, "\nElectrical power generated (at %g%% ORC efficiency): %.2f W\n", s.params.ORCEfficiency*100, res.ElectricalPowerW)
	fmt.Fprintln(s.out, "Current generated at different voltages:")
	for _, c := range res.Currents {
		fmt.Fprintf(s.out, "  At %g V: %.2f amperes\n", c.Voltage, c.Amperes)
	}

	if s.profilePath == "" {
		return
	}
	if err := sys.Profile(traces).SavePNG(s.profilePath); err != nil {
		errorColor.Fprintf(s.out, "Error: saving profile: %v\n", err)
		return
	}
	s.logger.Info().Str("path", s.profilePath).Msg("profile saved")
	fmt.Fprintf(s.out, "Saved ray trace profile to %s\n", s.profilePath)
}
