package notify

import (
	"context"
	"time"

	"github.com/josiasmanzur02/sevenminutes/internal"
	"github.com/josiasmanzur02/sevenminutes/internal/storage"
)

// Tone kinds understood by PlayTone.
const (
	TonePing   = "ping"
	ToneFinish = "finish"
	ToneAlarm  = "alarm"
)

// Notifier delivers a system notification. The tag is handed to the
// host for de-duplication; it carries no meaning here.
type Notifier interface {
	Notify(ctx context.Context, title, body, tag string) error
}

// ToneSink synthesizes a tone from a spec. Fire-and-forget.
type ToneSink interface {
	Play(spec ToneSpec) error
}

type ToneSpec struct {
	Kind      string
	Frequency float64 // Hz
	Duration  time.Duration
	Waveform  string
	Gain      float64
}

func toneFor(kind string) (ToneSpec, bool) {
	switch kind {
	case TonePing:
		return ToneSpec{Kind: kind, Frequency: 880, Duration: 400 * time.Millisecond, Waveform: "sine", Gain: 0.06}, true
	case ToneFinish:
		return ToneSpec{Kind: kind, Frequency: 660, Duration: 700 * time.Millisecond, Waveform: "sine", Gain: 0.08}, true
	case ToneAlarm:
		return ToneSpec{Kind: kind, Frequency: 523.25, Duration: 900 * time.Millisecond, Waveform: "square", Gain: 0.1}, true
	}
	return ToneSpec{}, false
}

// Presenter owns the best-effort side effects. Every failure degrades
// to a no-op; nothing escapes its boundary.
type Presenter struct {
	notifier Notifier
	sink     ToneSink
	store    storage.StateRepository
	logger   internal.Logger
}

func NewPresenter(notifier Notifier, sink ToneSink, store storage.StateRepository, logger internal.Logger) *Presenter {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if sink == nil {
		sink = LogSink{Logger: logger}
	}
	return &Presenter{notifier: notifier, sink: sink, store: store, logger: logger}
}

func (p *Presenter) Notify(ctx context.Context, title, body, tag string) {
	if err := p.notifier.Notify(ctx, title, body, tag); err != nil {
		// degraded capability, not an error
		p.logger.Debugf("notify: skipped: %v", err)
	}
}

// PlayTone honors the persisted sound preference and scales the
// envelope gain by the configured volume.
func (p *Presenter) PlayTone(ctx context.Context, kind string) {
	spec, ok := toneFor(kind)
	if !ok {
		p.logger.Warnf("notify: unknown tone kind %q", kind)
		return
	}
	st, err := p.store.State(ctx)
	if err != nil {
		p.logger.Debugf("notify: tone skipped, state unavailable: %v", err)
		return
	}
	if !st.Settings.Sound.Enabled {
		return
	}
	spec.Gain *= st.Settings.Sound.Volume
	if err := p.sink.Play(spec); err != nil {
		p.logger.Debugf("notify: tone skipped: %v", err)
	}
}
