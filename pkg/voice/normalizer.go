package voice

// Normalizer turns arbitrary-rate, arbitrary-channel PCM blocks into an
// ordered sequence of 20ms/16kHz/mono/S16LE frames. Residual bytes that
// don't fill a complete frame are carried between Push calls.
type Normalizer struct {
	residual []byte
	// OddByteDrops counts trailing odd bytes truncated from malformed
	// (odd-length) input blocks.
	OddByteDrops int
}

// NewNormalizer returns a Normalizer with an empty residual.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Push resamples and down-mixes chunk (source rate sourceRateHz, channel
// count sourceChannels) to 16kHz mono, appends it to the residual, and
// returns as many complete frames as the residual now permits. The
// remainder (< FrameBytes) is retained for the next call.
func (n *Normalizer) Push(chunk []byte, sourceRateHz, sourceChannels int) []Frame {
	if len(chunk)%2 != 0 {
		chunk = chunk[:len(chunk)-1]
		n.OddByteDrops++
	}

	samples := bytesToInt16(chunk)
	mono := downmix(samples, sourceChannels)
	resampled := resample(mono, sourceRateHz, SampleRateHz)

	n.residual = append(n.residual, int16ToBytes(resampled)...)

	frameCount := len(n.residual) / FrameBytes
	frames := make([]Frame, frameCount)
	for i := 0; i < frameCount; i++ {
		var f Frame
		off := i * FrameBytes
		for j := 0; j < FrameSamples; j++ {
			lo := n.residual[off+2*j]
			hi := n.residual[off+2*j+1]
			f[j] = int16(uint16(lo) | uint16(hi)<<8)
		}
		frames[i] = f
	}
	n.residual = n.residual[frameCount*FrameBytes:]

	return frames
}

// Reset discards the residual. Called on state transitions that drop
// inbound audio.
func (n *Normalizer) Reset() {
	n.residual = n.residual[:0]
}

func bytesToInt16(b []byte) []int16 {
	out := make([]int16, len(b)/2)
	for i := range out {
		out[i] = int16(uint16(b[2*i]) | uint16(b[2*i+1])<<8)
	}
	return out
}

func int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		out[2*i] = byte(uint16(s))
		out[2*i+1] = byte(uint16(s) >> 8)
	}
	return out
}

// downmix averages across channels at each sample index. channels == 1 is
// the identity.
func downmix(samples []int16, channels int) []int16 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	out := make([]int16, frames)
	for i := 0; i < frames; i++ {
		var sum int32
		for c := 0; c < channels; c++ {
			sum += int32(samples[i*channels+c])
		}
		out[i] = int16(sum / int32(channels))
	}
	return out
}

// resample performs linear interpolation between adjacent source samples.
// srcRate == dstRate is the identity on the sample stream.
func resample(samples []int16, srcRate, dstRate int) []int16 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}
	outLen := len(samples) * dstRate / srcRate
	out := make([]int16, outLen)
	for i := 0; i < outLen; i++ {
		srcPos := float64(i) * float64(srcRate) / float64(dstRate)
		lo := int(srcPos)
		frac := srcPos - float64(lo)
		hi := lo + 1
		if hi >= len(samples) {
			hi = len(samples) - 1
		}
		if lo >= len(samples) {
			lo = len(samples) - 1
		}
		out[i] = int16(float64(samples[lo])*(1-frac) + float64(samples[hi])*frac)
	}
	return out
}
