package frame

import "github.com/danmuck/canectl/internal/telemetry"

// Record is one complete tick rebuilt from its five frames.
type Record struct {
	ModeTag byte
	State   telemetry.SensorState
}

const allChannels = 1<<len(channelTable) - 1

// Assembler rebuilds Records on the receiving side. A frame with a different
// mode tag than the partial record restarts assembly from that frame.
type Assembler struct {
	pending telemetry.SensorState
	tag     byte
	seen    uint8
}

// Add folds f into the pending record and reports a Record once every channel
// has arrived. Frames for unknown channels are dropped.
func (a *Assembler) Add(f Frame) (Record, bool) {
	info, ok := lookup(f.Channel)
	if !ok {
		return Record{}, false
	}
	if a.seen != 0 && f.ModeTag != a.tag {
		a.Reset()
	}
	if err := Apply(f, &a.pending); err != nil {
		return Record{}, false
	}
	a.tag = f.ModeTag
	a.seen |= 1 << (info.id - ChannelAccelerometer)
	if a.seen != allChannels {
		return Record{}, false
	}

	rec := Record{ModeTag: a.tag, State: a.pending}
	a.Reset()
	return rec, true
}

func (a *Assembler) Reset() {
	a.pending = telemetry.SensorState{}
	a.tag = 0
	a.seen = 0
}
