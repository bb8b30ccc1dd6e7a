package voice

import (
	"math"
	"testing"
)

func int16sToBytes(samples []int16) []byte {
	return int16ToBytes(samples)
}

func TestNormalizerIdentityRateMonoProducesExactFrames(t *testing.T) {
	n := NewNormalizer()
	samples := make([]int16, FrameSamples*2)
	for i := range samples {
		samples[i] = int16(i)
	}
	frames := n.Push(int16sToBytes(samples), SampleRateHz, 1)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0][0] != 0 || frames[1][0] != FrameSamples {
		t.Fatalf("frame contents not in order: %v / %v", frames[0][0], frames[1][0])
	}
}

func TestNormalizerCarriesResidualAcrossPushes(t *testing.T) {
	n := NewNormalizer()
	half := make([]int16, FrameSamples/2)
	frames := n.Push(int16sToBytes(half), SampleRateHz, 1)
	if len(frames) != 0 {
		t.Fatalf("partial push should yield no frames yet, got %d", len(frames))
	}
	frames = n.Push(int16sToBytes(half), SampleRateHz, 1)
	if len(frames) != 1 {
		t.Fatalf("second half-push should complete exactly one frame, got %d", len(frames))
	}
}

func TestNormalizerOddByteTailIsTruncatedAndCounted(t *testing.T) {
	n := NewNormalizer()
	chunk := make([]byte, FrameBytes+1)
	n.Push(chunk, SampleRateHz, 1)
	if n.OddByteDrops != 1 {
		t.Fatalf("OddByteDrops = %d, want 1", n.OddByteDrops)
	}
}

func TestNormalizerDownmixStereoToMono(t *testing.T) {
	n := NewNormalizer()
	stereo := []int16{100, 200, 300, 400}
	frames := n.Push(int16sToBytes(stereo), SampleRateHz, 2)
	if len(frames) != 0 {
		// Not enough samples to complete a frame; the downmix is checked
		// directly below instead of asserting on frames.
	}
	mono := downmix(stereo, 2)
	want := []int16{150, 350}
	for i, w := range want {
		if mono[i] != w {
			t.Errorf("downmix[%d] = %d, want %d", i, mono[i], w)
		}
	}
}

func TestNormalizerResampleIdentity(t *testing.T) {
	in := []int16{1, 2, 3, 4}
	out := resample(in, SampleRateHz, SampleRateHz)
	if len(out) != len(in) {
		t.Fatalf("identity resample changed length: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("identity resample[%d] = %d, want %d", i, out[i], in[i])
		}
	}
}

func TestNormalizerResampleChangesLength(t *testing.T) {
	in := make([]int16, 480) // 10ms at 48kHz
	out := resample(in, 48000, SampleRateHz)
	want := len(in) * SampleRateHz / 48000
	if len(out) != want {
		t.Fatalf("resampled length = %d, want %d", len(out), want)
	}
}

// TestNormalizerResamplesStereo48kSineToOneFrame covers scenario 1: 960
// samples per channel at 48kHz stereo (20ms), sine-shaped, downmixes and
// resamples to exactly one 640-byte 16kHz mono frame.
func TestNormalizerResamplesStereo48kSineToOneFrame(t *testing.T) {
	n := NewNormalizer()
	const perChannel = 960
	stereo := make([]int16, perChannel*2)
	for i := 0; i < perChannel; i++ {
		v := int16(16000 * math.Sin(float64(i)*0.1))
		stereo[2*i] = v
		stereo[2*i+1] = v
	}
	frames := n.Push(int16sToBytes(stereo), 48000, 2)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
}

func TestNormalizerResetClearsResidual(t *testing.T) {
	n := NewNormalizer()
	n.Push(make([]byte, 10), SampleRateHz, 1)
	n.Reset()
	frames := n.Push(make([]byte, FrameBytes-10), SampleRateHz, 1)
	if len(frames) != 0 {
		t.Fatalf("residual should have been cleared by Reset, got %d frames from a sub-frame push", len(frames))
	}
}
