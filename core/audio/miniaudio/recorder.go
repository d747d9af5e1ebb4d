package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/lingora/lingora-core/core/audio"
)

// Recorder is a malgo-backed microphone source. It feeds captured PCM frames
// to the callback passed to Start until Stop is called.
type Recorder struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	onFrame func(pcm []byte)

	mu sync.Mutex
}

// NewRecorder allocates a capture device for the given encoding.
func NewRecorder(encoding audio.EncodingInfo) (*Recorder, error) {
	if encoding.IsZero() {
		encoding = audio.GetDefaultEncodingInfo()
	}

	audioContext, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	r := &Recorder{audioContext: audioContext}

	sampleRate := uint32(encoding.SampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	r.config = malgo.DefaultDeviceConfig(malgo.Capture)
	r.config.SampleRate = sampleRate
	r.config.Capture.Format = format
	r.config.Capture.Channels = uint32(channels)
	r.config.Alsa.NoMMap = 1
	r.config.PerformanceProfile = malgo.LowLatency
	r.config.PeriodSizeInFrames = 480
	r.config.Periods = 3

	r.device, err = malgo.InitDevice(r.audioContext.Context, r.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			r.mu.Lock()
			onFrame := r.onFrame
			r.mu.Unlock()
			if onFrame != nil {
				onFrame(pInput[:n])
			}
		},
	})
	if err != nil {
		_ = audioContext.Uninit()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return r, nil
}

func (r *Recorder) Start(onFrame func(pcm []byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return fmt.Errorf("device not initialized")
	} else if r.device.IsStarted() {
		return nil
	}

	r.onFrame = onFrame
	if err := r.device.Start(); err != nil {
		r.onFrame = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !r.device.IsStarted() {
		return nil
	}

	if err := r.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}

	r.onFrame = nil
	return nil
}

func (r *Recorder) Close() error {
	_ = r.Stop()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.device != nil {
		r.device.Uninit()
		r.device = nil
	}

	if r.audioContext != nil {
		if err := r.audioContext.Uninit(); err != nil {
			return fmt.Errorf("failed to uninit audio context: %w", err)
		}
		r.audioContext.Free()
		r.audioContext = nil
	}

	return nil
}
