// Package miniaudio provides a malgo-backed playback device for synthesized
// speech. It plays raw PCM pushed by a synthesizer and reports, through drain
// marks, the moment every byte queued before the mark has left the device.
package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/lingora/lingora-core/core/audio"
)

type Player struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	pending []byte
	marks   []drainMark

	mu      sync.Mutex
	audioMu sync.Mutex
	marksMu sync.Mutex
}

type drainMark struct {
	name     string
	position int
	callback func(string)
}

// NewPlayer allocates a playback device for the given encoding. The device is
// initialized but not started.
func NewPlayer(encoding audio.EncodingInfo) (*Player, error) {
	if encoding.IsZero() {
		encoding = audio.GetDefaultEncodingInfo()
	}

	audioContext, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	p := &Player{audioContext: audioContext}

	sampleRate := uint32(encoding.SampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	p.config = malgo.DefaultDeviceConfig(malgo.Playback)
	p.config.SampleRate = sampleRate
	p.config.Playback.Format = format
	p.config.Playback.Channels = uint32(channels)
	p.config.Alsa.NoMMap = 1
	p.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	p.config.Periods = 4

	if p.device, err = malgo.InitDevice(
		p.audioContext.Context,
		p.config,
		malgo.DeviceCallbacks{Data: p.processAudio(bytesPerFrame)},
	); err != nil {
		_ = audioContext.Uninit()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return p, nil
}

func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if p.device.IsStarted() {
		return nil
	}

	if err := p.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

// SendAudio appends PCM to the playback buffer.
func (p *Player) SendAudio(pcm []byte) error {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()
	if device == nil {
		return fmt.Errorf("device not initialized")
	} else if !device.IsStarted() {
		return fmt.Errorf("device not started")
	}

	p.audioMu.Lock()
	defer p.audioMu.Unlock()
	p.pending = append(p.pending, pcm...)
	return nil
}

// MarkDrained registers a callback fired once everything queued so far has
// been handed to the device. Each mark fires at most once; Clear drops
// unfired marks.
func (p *Player) MarkDrained(name string, callback func(string)) {
	p.audioMu.Lock()
	position := len(p.pending)
	p.audioMu.Unlock()

	p.marksMu.Lock()
	defer p.marksMu.Unlock()
	p.marks = append(p.marks, drainMark{name: name, position: position, callback: callback})
}

// Clear drops buffered audio and unfired drain marks.
func (p *Player) Clear() {
	p.audioMu.Lock()
	p.marksMu.Lock()
	defer p.audioMu.Unlock()
	defer p.marksMu.Unlock()
	p.pending = nil
	p.marks = nil
}

func (p *Player) Close() error {
	p.Clear()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device != nil {
		p.device.Uninit()
		p.device = nil
	}

	if p.audioContext != nil {
		if err := p.audioContext.Uninit(); err != nil {
			return fmt.Errorf("failed to uninit audio context: %w", err)
		}
		p.audioContext.Free()
		p.audioContext = nil
	}

	return nil
}

func (p *Player) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		p.audioMu.Lock()
		if len(p.pending) == 0 {
			p.audioMu.Unlock()
			p.fireMarks(0)
			return
		}

		consumed := need
		if len(p.pending) < need {
			consumed = len(p.pending)
			copy(pOutput, p.pending)
			p.pending = nil
		} else {
			copy(pOutput, p.pending[:need])
			p.pending = p.pending[need:]
		}
		p.audioMu.Unlock()

		p.fireMarks(consumed)
	}
}

// fireMarks advances mark positions by the number of consumed bytes and
// invokes callbacks for every mark that has been passed.
func (p *Player) fireMarks(consumed int) {
	p.marksMu.Lock()
	passed := 0
	for i := range p.marks {
		if p.marks[i].position > consumed {
			p.marks[i].position -= consumed
		} else {
			passed++
		}
	}
	var toCall []drainMark
	if passed > 0 {
		toCall = append(toCall, p.marks[:passed]...)
		p.marks = p.marks[passed:]
	}
	p.marksMu.Unlock()

	if len(toCall) == 0 {
		return
	}
	go func() {
		for _, mark := range toCall {
			mark.callback(mark.name)
		}
	}()
}
