package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EncodeWAV serializes mono float32 samples as a 16-bit PCM WAV file.
// The whisper and pyannote sidecars both take multipart WAV uploads, so this
// is the only container format the pipeline ever produces.
func EncodeWAV(samples []float32, rate int) []byte {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	dataLen := len(samples) * 2
	byteRate := rate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(rate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, floatToPCM16(s))
	}

	return buf.Bytes()
}

// floatToPCM16 clamps a float32 sample into signed 16-bit PCM.
func floatToPCM16(s float32) int16 {
	v := float64(s)
	switch {
	case v > 1.0:
		v = 1.0
	case v < -1.0:
		v = -1.0
	}
	return int16(math.Round(v * 32767))
}
