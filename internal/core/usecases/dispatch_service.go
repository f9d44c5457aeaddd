package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
	"github.com/samirrijal/mapdispatch/internal/core/ports"
	"github.com/samirrijal/mapdispatch/internal/pkg/logging"
	"github.com/samirrijal/mapdispatch/internal/pkg/metrics"
	"github.com/samirrijal/mapdispatch/internal/pkg/telemetry"
)

const publishTimeout = 5 * time.Second

// Options tune a single directions request.
type Options struct {
	// Remember consults and stores the remembered preference.
	Remember bool `json:"remember"`
	// Only restricts candidates to these apps. Nil means no restriction; a
	// restriction matching nothing falls back to the default app.
	Only []domain.AppID `json:"only,omitempty"`
	// Overrides supplies literal URLs for override-based apps.
	Overrides map[domain.AppID]string `json:"overrides,omitempty"`
	// RequestID correlates logs, events and the outcome. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// DispatchService turns a directions request into exactly one app launch.
type DispatchService struct {
	availability *AvailabilityService
	prefs        *PreferenceService
	chooser      *ChooserService
	host         ports.AppHost
	publisher    ports.EventPublisher
	prompt       Prompt
}

// NewDispatchService creates a new DispatchService. publisher may be nil.
func NewDispatchService(
	availability *AvailabilityService,
	prefs *PreferenceService,
	chooser *ChooserService,
	host ports.AppHost,
	publisher ports.EventPublisher,
	prompt Prompt,
) *DispatchService {
	return &DispatchService{
		availability: availability,
		prefs:        prefs,
		chooser:      chooser,
		host:         host,
		publisher:    publisher,
		prompt:       prompt,
	}
}

// AvailableApps returns the currently launchable apps in catalog order.
func (s *DispatchService) AvailableApps() []domain.NavigationApp {
	return s.availability.AvailableApps()
}

// ResetPreferences forgets the remembered app.
func (s *DispatchService) ResetPreferences(ctx context.Context) error {
	return s.prefs.Reset(ctx)
}

// Candidates computes the apps eligible for this request: the available apps
// (in their order) intersected with only, or the default app alone when
// nothing is left.
func (s *DispatchService) Candidates(ctx context.Context, only []domain.AppID) []domain.NavigationApp {
	available := s.availability.AvailableApps()
	candidates := available
	if only != nil {
		candidates = nil
		for _, app := range available {
			if domain.Contains(only, app.ID) {
				candidates = append(candidates, app)
			}
		}
	}
	if len(candidates) == 0 {
		logging.FromContext(ctx).Info("falling back to default app",
			"reason", domain.ErrNoCandidatesAvailable.Error(),
			"available", len(available),
			"restricted", only != nil,
		)
		candidates = []domain.NavigationApp{s.availability.Catalog().Default()}
	}
	return candidates
}

// DirectionsToCoordinates prompts for an app and launches it with directions to a coordinate.
func (s *DispatchService) DirectionsToCoordinates(ctx context.Context, to domain.GeoPoint, opts Options) <-chan domain.Outcome {
	return s.Directions(ctx, domain.ToCoordinates(to), opts)
}

// DirectionsToAddress prompts for an app and launches it with directions to
// an address. Apps without address support get the fallback coordinates.
func (s *DispatchService) DirectionsToAddress(ctx context.Context, address string, fallback domain.GeoPoint, opts Options) <-chan domain.Outcome {
	return s.Directions(ctx, domain.ToAddress(address, fallback), opts)
}

// Directions runs one request. The returned channel receives exactly one
// Outcome and is then closed; it is closed without a value when the user
// dismisses the chooser.
func (s *DispatchService) Directions(ctx context.Context, dest domain.Destination, opts Options) <-chan domain.Outcome {
	out := make(chan domain.Outcome, 1)
	requestID := opts.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanDirections, trace.WithAttributes(
		attribute.Bool(telemetry.AttrRemember, opts.Remember),
		attribute.Bool(telemetry.AttrAddress, dest.IsAddress()),
	))
	log := logging.FromContext(ctx).With("request_id", requestID)
	ctx = logging.WithLogger(ctx, log)

	candidates := s.Candidates(ctx, opts.Only)
	span.SetAttributes(attribute.Int(telemetry.AttrCandidates, len(candidates)))
	log.Debug("candidates computed", "count", len(candidates), "fingerprint", domain.Fingerprint(candidates))

	go func() {
		defer close(out)
		defer span.End()

		app, fromMemory, ok := s.selectApp(ctx, candidates, opts.Remember)
		if !ok {
			log.Info("chooser cancelled, nothing launched")
			metrics.DispatchRequests.WithLabelValues("cancelled").Inc()
			span.SetStatus(codes.Ok, domain.ErrChooserCancelled.Error())
			return
		}

		link, launched := s.launch(ctx, app, dest, opts.Overrides)
		span.SetAttributes(
			attribute.String(telemetry.AttrApp, app.Slug()),
			attribute.Bool(telemetry.AttrFromMemory, fromMemory),
			attribute.Bool(telemetry.AttrLaunched, launched),
		)
		metrics.DispatchRequests.WithLabelValues("completed").Inc()
		metrics.DispatchLaunches.WithLabelValues(app.Slug(), metrics.Source(fromMemory), metrics.Result(launched)).Inc()
		log.Info("directions dispatched", "app", app.Slug(), "from_memory", fromMemory, "launched", launched)

		// Published before completion: receivers tear down ctx and the
		// publisher as soon as the outcome arrives.
		s.publish(ctx, &domain.LaunchEvent{
			ID:         requestID,
			Scope:      s.prefs.Scope(),
			App:        app,
			FromMemory: fromMemory,
			Launched:   launched,
			URL:        link,
			At:         time.Now().UTC(),
		})

		out <- domain.Outcome{RequestID: requestID, App: app, FromMemory: fromMemory, Launched: launched}
	}()

	return out
}

// LaunchDefault opens the native maps app with directions to a coordinate,
// skipping the chooser and the remembered preference.
func (s *DispatchService) LaunchDefault(ctx context.Context, to domain.GeoPoint) <-chan bool {
	out := make(chan bool, 1)
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanLaunchDefault)
	app := s.availability.Catalog().Default().ID

	go func() {
		defer close(out)
		defer span.End()
		_, launched := s.launch(ctx, app, domain.ToCoordinates(to), nil)
		metrics.DispatchLaunches.WithLabelValues(app.Slug(), "direct", metrics.Result(launched)).Inc()
		out <- launched
	}()
	return out
}

// selectApp resolves the app to launch. ok is false only on cancellation.
func (s *DispatchService) selectApp(ctx context.Context, candidates []domain.NavigationApp, remember bool) (app domain.AppID, fromMemory, ok bool) {
	log := logging.FromContext(ctx)

	if remember {
		app, err := s.prefs.Get(ctx, candidates)
		switch {
		case err == nil:
			metrics.PreferenceLookups.WithLabelValues("hit").Inc()
			log.Debug("using remembered app", "app", app.Slug())
			return app, true, true
		case errors.Is(err, domain.ErrPreferenceNotSet):
			metrics.PreferenceLookups.WithLabelValues("miss").Inc()
		default:
			metrics.PreferenceLookups.WithLabelValues("error").Inc()
			log.Warn("preference lookup failed", "error", err)
		}
	}

	var choice Choice
	if len(candidates) == 1 {
		choice = Choice{App: candidates[0].ID}
	} else {
		_, span := telemetry.Tracer().Start(ctx, telemetry.SpanChoose)
		choice = <-s.chooser.Choose(ctx, candidates, s.prompt)
		span.End()
	}
	if choice.Cancelled {
		return 0, false, false
	}

	if remember {
		if err := s.prefs.Set(ctx, choice.App, candidates); err != nil {
			log.Warn("remember preference failed", "app", choice.App.Slug(), "error", err)
		}
	}
	return choice.App, false, true
}

// launch builds the URL, re-checks it against the host and opens it. No
// retries and no fallback to another app.
func (s *DispatchService) launch(ctx context.Context, id domain.AppID, dest domain.Destination, overrides map[domain.AppID]string) (string, bool) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanLaunch, trace.WithAttributes(
		attribute.String(telemetry.AttrApp, id.Slug()),
	))
	defer span.End()
	log := logging.FromContext(ctx).With("app", id.Slug())

	app, err := s.availability.Catalog().Lookup(id)
	if err != nil {
		s.fail(span, log, "unknown app", err)
		return "", false
	}
	link, err := BuildLink(app, dest, overrides)
	if err != nil {
		s.fail(span, log, "build link", err)
		return "", false
	}
	u, err := domain.ParseLaunchURL(link)
	if err != nil {
		s.fail(span, log, "parse link", err)
		return link, false
	}
	if !s.host.CanOpen(u) {
		s.fail(span, log, "capability re-check", domain.ErrLaunchRejected)
		return link, false
	}

	start := time.Now()
	launched := <-s.host.Open(ctx, u, ports.OpenOptions{})
	metrics.LaunchDuration.WithLabelValues(id.Slug()).Observe(time.Since(start).Seconds())
	if !launched {
		s.fail(span, log, "open", domain.ErrLaunchRejected)
	}
	return link, launched
}

func (s *DispatchService) fail(span trace.Span, log *slog.Logger, step string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, step)
	log.Warn("launch failed", "step", step, "error", err)
}

// publish is best effort. It outlives the request context so a session
// closed mid-launch still records the attempt.
func (s *DispatchService) publish(ctx context.Context, event *domain.LaunchEvent) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.PublishLaunch(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("publish launch event", "error", err)
	}
}
