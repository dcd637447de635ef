package audio

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
	"time"
)

// Gemini TTS returns 16-bit little endian mono PCM at 24kHz
const (
	DefaultSampleRate = 24000
	DefaultChannels   = 1
	bitsPerSample     = 16
)

// PCM holds raw 16-bit little endian samples
type PCM struct {
	Data       []byte
	SampleRate int
	Channels   int
}

// NewPCM wraps raw sample bytes using the Gemini defaults
func NewPCM(data []byte) *PCM {
	return &PCM{Data: data, SampleRate: DefaultSampleRate, Channels: DefaultChannels}
}

// DecodePCM decodes a base64 payload into PCM and validates it
func DecodePCM(payload string) (*PCM, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}
	pcm := NewPCM(data)
	if err := pcm.Validate(); err != nil {
		return nil, err
	}
	return pcm, nil
}

// Validate checks that the data is a whole number of 16-bit frames
func (p *PCM) Validate() error {
	if len(p.Data) == 0 {
		return errors.New("PCM data is empty")
	}
	if p.Channels <= 0 || p.Channels > 2 {
		return errors.New("only mono (1) or stereo (2) channels supported")
	}
	if p.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}
	if len(p.Data)%2 != 0 {
		return errors.New("PCM data must have even length (16-bit samples)")
	}
	if len(p.Data)%(2*p.Channels) != 0 {
		return errors.New("PCM data length doesn't match channel count")
	}
	return nil
}

// Base64 returns the samples in the encoding used on the wire
func (p *PCM) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// SampleCount returns the number of 16-bit samples
func (p *PCM) SampleCount() int {
	if len(p.Data)%2 != 0 {
		return 0
	}
	return len(p.Data) / 2
}

// Duration returns the playback length
func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 || p.Channels <= 0 {
		return 0
	}
	frames := p.SampleCount() / p.Channels
	return time.Duration(frames) * time.Second / time.Duration(p.SampleRate)
}

// WAV wraps the samples in a RIFF/WAVE container
func (p *PCM) WAV() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	const (
		audioFormatPCM = 1
		subchunk1Size  = 16
	)

	blockAlign := p.Channels * bitsPerSample / 8
	byteRate := p.SampleRate * blockAlign
	dataSize := len(p.Data)

	var buf bytes.Buffer
	buf.Grow(44 + dataSize)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(subchunk1Size))
	binary.Write(&buf, binary.LittleEndian, uint16(audioFormatPCM))
	binary.Write(&buf, binary.LittleEndian, uint16(p.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(p.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(p.Data)

	return buf.Bytes(), nil
}

// sampleRateFromMIME reads the rate parameter of types such as
// "audio/L16;codec=pcm;rate=24000"
func sampleRateFromMIME(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return DefaultSampleRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return DefaultSampleRate
	}
	return rate
}
