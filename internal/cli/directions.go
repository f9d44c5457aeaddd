package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/usecases"
)

// ErrNotLaunched is returned when the chosen app could not be opened.
var ErrNotLaunched = errors.New("navigation app could not be opened")

type directionsFlags struct {
	remember  bool
	only      []string
	overrides map[string]string
}

func (f *directionsFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.remember, "remember", "r", false, "Reuse and store the chosen app")
	cmd.Flags().StringSliceVar(&f.only, "only", nil, "Offer only these apps (e.g. waze,google_maps)")
	cmd.Flags().StringToStringVar(&f.overrides, "override", nil, "Literal launch URL per app (e.g. copilot=copilot://...)")
}

// options converts flags to usecases.Options. --only given with no valid
// value still restricts.
func (f *directionsFlags) options(cmd *cobra.Command) (usecases.Options, error) {
	opts := usecases.Options{Remember: f.remember}
	if cmd.Flags().Changed("only") {
		opts.Only = make([]domain.AppID, 0, len(f.only))
		for _, raw := range f.only {
			id, err := parseApp(raw)
			if err != nil {
				return opts, err
			}
			opts.Only = append(opts.Only, id)
		}
	}
	if len(f.overrides) > 0 {
		opts.Overrides = make(map[domain.AppID]string, len(f.overrides))
		for raw, link := range f.overrides {
			id, err := parseApp(raw)
			if err != nil {
				return opts, err
			}
			opts.Overrides[id] = link
		}
	}
	return opts, nil
}

func parseApp(raw string) (domain.AppID, error) {
	id, err := domain.ParseAppID(raw)
	if err == nil {
		return id, nil
	}
	if guess, ok := domain.SuggestApp(raw); ok {
		return 0, fmt.Errorf("%w (did you mean %q?)", err, guess.Slug())
	}
	return 0, err
}

func parsePoint(latRaw, lonRaw string) (domain.GeoPoint, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: latitude %q", domain.ErrInvalidCoordinates, latRaw)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: longitude %q", domain.ErrInvalidCoordinates, lonRaw)
	}
	p := domain.GeoPoint{Lat: lat, Lon: lon}
	return p, p.Validate()
}

func newToCmd(withEnv envRunner) *cobra.Command {
	var f directionsFlags
	cmd := &cobra.Command{
		Use:   "to <lat> <lon>",
		Short: "Get directions to a coordinate",
		Example: `  navigate to 40.4168 3.7038
  navigate to --remember --only waze,google_maps -- 43.263 -2.935`,
		Args: cobra.ExactArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, env *Env) error {
			to, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			out := env.Dispatcher().DirectionsToCoordinates(cmd.Context(), to, opts)
			return report(cmd.OutOrStdout(), out)
		}),
	}
	f.register(cmd)
	return cmd
}

func newAddressCmd(withEnv envRunner) *cobra.Command {
	var (
		f        directionsFlags
		lat, lon string
	)
	cmd := &cobra.Command{
		Use:   "address <address>",
		Short: "Get directions to a street address",
		Long: `Get directions to a street address. Apps that cannot search by address
are sent to the --lat/--lon fallback coordinates.`,
		Args: cobra.ExactArgs(1),
		RunE: withEnv(func(cmd *cobra.Command, args []string, env *Env) error {
			if strings.TrimSpace(args[0]) == "" {
				return errors.New("address must not be empty")
			}
			fallback, err := parsePoint(lat, lon)
			if err != nil {
				return err
			}
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}
			out := env.Dispatcher().DirectionsToAddress(cmd.Context(), args[0], fallback, opts)
			return report(cmd.OutOrStdout(), out)
		}),
	}
	f.register(cmd)
	cmd.Flags().StringVar(&lat, "lat", "", "Fallback latitude")
	cmd.Flags().StringVar(&lon, "lon", "", "Fallback longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

func newDefaultCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "default <lat> <lon>",
		Short: "Open the native maps app without asking",
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(cmd *cobra.Command, args []string, env *Env) error {
			to, err := parsePoint(args[0], args[1])
			if err != nil {
				return err
			}
			if !<-env.Dispatcher().LaunchDefault(cmd.Context(), to) {
				return ErrNotLaunched
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", env.Catalog.Default().Name)
			return nil
		}),
	}
}

// report prints the outcome of a directions request.
func report(w io.Writer, out <-chan domain.Outcome) error {
	outcome, ok := <-out
	if !ok {
		fmt.Fprintln(w, "Cancelled")
		return nil
	}
	name := outcome.App.DisplayName()
	if !outcome.Launched {
		return fmt.Errorf("%s: %w", name, ErrNotLaunched)
	}
	if outcome.FromMemory {
		fmt.Fprintf(w, "Opened %s (remembered)\n", name)
		return nil
	}
	fmt.Fprintf(w, "Opened %s\n", name)
	return nil
}
