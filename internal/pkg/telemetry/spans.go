package telemetry

// Span and attribute names used for instrumentation.
const (
	SpanDirections    = "dispatch.directions"
	SpanLaunchDefault = "dispatch.launch_default"
	SpanChoose        = "dispatch.choose"
	SpanLaunch        = "dispatch.launch"

	AttrCandidates = "dispatch.candidates"
	AttrApp        = "dispatch.app"
	AttrFromMemory = "dispatch.from_memory"
	AttrLaunched   = "dispatch.launched"
	AttrRemember   = "dispatch.remember"
	AttrAddress    = "dispatch.by_address"
)
