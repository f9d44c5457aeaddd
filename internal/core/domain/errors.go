package domain

import "errors"

var (
	// ErrNoCandidatesAvailable means the restriction left nothing; callers fall back to the default app.
	ErrNoCandidatesAvailable = errors.New("no candidate navigation apps available")
	// ErrPreferenceNotSet means no remembered choice matches the current app set.
	ErrPreferenceNotSet = errors.New("map app preference not set")
	// ErrURLBuildFailed means no launch URL could be produced for the chosen app.
	ErrURLBuildFailed = errors.New("navigation url build failed")
	// ErrLaunchRejected means the app host cannot or will not open the URL.
	ErrLaunchRejected = errors.New("app host rejected launch")
	// ErrChooserCancelled means the user dismissed the chooser.
	ErrChooserCancelled = errors.New("chooser cancelled")

	ErrUnknownApp         = errors.New("unknown navigation app")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrNotFound           = errors.New("not found")
)
