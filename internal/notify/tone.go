package notify

import "github.com/josiasmanzur02/sevenminutes/internal"

// LogSink is the default audio capability: it records the envelope it
// would have played. Hosts with real audio plug in their own ToneSink.
type LogSink struct {
	Logger internal.Logger
}

func (s LogSink) Play(spec ToneSpec) error {
	s.Logger.Debugf("tone %s: %.2fHz %s %s gain=%.3f",
		spec.Kind, spec.Frequency, spec.Waveform, spec.Duration, spec.Gain)
	return nil
}
