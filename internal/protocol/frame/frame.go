package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/danmuck/canectl/internal/telemetry"
)

// ChannelID identifies one multiplexed sensor stream.
type ChannelID byte

const (
	ChannelAccelerometer ChannelID = 0x01
	ChannelGyroscope     ChannelID = 0x02
	ChannelMagnetometer  ChannelID = 0x03
	ChannelPressure      ChannelID = 0x04
	ChannelBattery       ChannelID = 0x05
)

const (
	ChannelIDLen = 1
	ModeTagLen   = 1
	float32Len   = 4

	// MaxFrameLen is the largest frame on the wire (three-axis channels).
	MaxFrameLen = ChannelIDLen + 3*float32Len + ModeTagLen
)

var (
	ErrUnknownChannel = errors.New("frame: unknown channel")
	ErrFrameLength    = errors.New("frame: length does not match channel")
	ErrValueCount     = errors.New("frame: value count does not match channel")
	ErrShortFrame     = errors.New("frame: short frame")
)

type channelInfo struct {
	id     ChannelID
	name   string
	floats int
}

// Wire order. Every tick sends these in sequence.
var channelTable = [...]channelInfo{
	{ChannelAccelerometer, "accelerometer", 3},
	{ChannelGyroscope, "gyroscope", 3},
	{ChannelMagnetometer, "magnetometer", 3},
	{ChannelPressure, "pressure", 2},
	{ChannelBattery, "battery", 1},
}

// Channels returns every channel id in wire order.
func Channels() []ChannelID {
	out := make([]ChannelID, 0, len(channelTable))
	for _, info := range channelTable {
		out = append(out, info.id)
	}
	return out
}

func lookup(id ChannelID) (channelInfo, bool) {
	if id < ChannelAccelerometer || id > ChannelBattery {
		return channelInfo{}, false
	}
	return channelTable[id-ChannelAccelerometer], true
}

func (c ChannelID) String() string {
	if info, ok := lookup(c); ok {
		return info.name
	}
	return fmt.Sprintf("channel(0x%02x)", byte(c))
}

// PayloadLen is the float payload size in bytes, or 0 for an unknown channel.
func (c ChannelID) PayloadLen() int {
	info, ok := lookup(c)
	if !ok {
		return 0
	}
	return info.floats * float32Len
}

// FrameLen is the full frame size in bytes, or 0 for an unknown channel.
func (c ChannelID) FrameLen() int {
	if n := c.PayloadLen(); n > 0 {
		return ChannelIDLen + n + ModeTagLen
	}
	return 0
}

// Frame is one decoded notification.
// Layout: ChannelID(1) | Payload(N x float32 LE) | ModeTag(1)
type Frame struct {
	Channel ChannelID
	Values  []float32
	ModeTag byte
}

func Encode(f Frame) ([]byte, error) {
	info, ok := lookup(f.Channel)
	if !ok {
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownChannel, byte(f.Channel))
	}
	if len(f.Values) != info.floats {
		return nil, fmt.Errorf("%w: %s wants %d got %d", ErrValueCount, info.name, info.floats, len(f.Values))
	}

	buf := make([]byte, f.Channel.FrameLen())
	buf[0] = byte(f.Channel)
	for i, v := range f.Values {
		off := ChannelIDLen + i*float32Len
		binary.LittleEndian.PutUint32(buf[off:off+float32Len], math.Float32bits(v))
	}
	buf[len(buf)-1] = f.ModeTag
	return buf, nil
}

func Decode(b []byte) (Frame, error) {
	if len(b) < ChannelIDLen+ModeTagLen {
		return Frame{}, ErrShortFrame
	}
	ch := ChannelID(b[0])
	info, ok := lookup(ch)
	if !ok {
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrUnknownChannel, b[0])
	}
	if len(b) != ch.FrameLen() {
		return Frame{}, fmt.Errorf("%w: %s wants %d bytes got %d", ErrFrameLength, info.name, ch.FrameLen(), len(b))
	}

	values := make([]float32, info.floats)
	for i := range values {
		off := ChannelIDLen + i*float32Len
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+float32Len]))
	}
	return Frame{Channel: ch, Values: values, ModeTag: b[len(b)-1]}, nil
}

// ValuesFor extracts one channel's values from a sensor snapshot.
func ValuesFor(ch ChannelID, st telemetry.SensorState) ([]float32, error) {
	switch ch {
	case ChannelAccelerometer:
		return st.Accelerometer[:], nil
	case ChannelGyroscope:
		return st.Gyroscope[:], nil
	case ChannelMagnetometer:
		return st.Magnetometer[:], nil
	case ChannelPressure:
		return st.Pressure[:], nil
	case ChannelBattery:
		return []float32{st.Battery}, nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownChannel, byte(ch))
	}
}

// EncodeState builds the frame for one channel of st tagged with modeTag.
func EncodeState(ch ChannelID, st telemetry.SensorState, modeTag byte) ([]byte, error) {
	values, err := ValuesFor(ch, st)
	if err != nil {
		return nil, err
	}
	return Encode(Frame{Channel: ch, Values: values, ModeTag: modeTag})
}

// Apply writes a decoded frame's values into st.
func Apply(f Frame, st *telemetry.SensorState) error {
	info, ok := lookup(f.Channel)
	if !ok {
		return fmt.Errorf("%w: 0x%02x", ErrUnknownChannel, byte(f.Channel))
	}
	if len(f.Values) != info.floats {
		return fmt.Errorf("%w: %s wants %d got %d", ErrValueCount, info.name, info.floats, len(f.Values))
	}
	switch f.Channel {
	case ChannelAccelerometer:
		copy(st.Accelerometer[:], f.Values)
	case ChannelGyroscope:
		copy(st.Gyroscope[:], f.Values)
	case ChannelMagnetometer:
		copy(st.Magnetometer[:], f.Values)
	case ChannelPressure:
		copy(st.Pressure[:], f.Values)
	case ChannelBattery:
		st.Battery = f.Values[0]
	}
	return nil
}
