package synth

import (
	"bytes"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/jackss011/esp-synth/internal/effects"
	"github.com/jackss011/esp-synth/internal/envelope"
	"github.com/jackss011/esp-synth/internal/mailbox"
	"github.com/jackss011/esp-synth/internal/wave"
)

// configFor builds a configuration where every field is derived from i, so
// a mix of two writes cannot pass for either of them.
func configFor(i int) Config {
	f := float32(i)
	c := DefaultConfig()
	c.Arp.Enabled = i%2 == 0
	c.Arp.TempoBPM = f
	c.Arp.Division = uint8(i)
	for k := range c.Osc {
		c.Osc[k].Enabled = i%3 == k
		c.Osc[k].Wave = wave.Kind((i + k) % 9)
		c.Osc[k].FreqMult = f + float32(k)
		c.Osc[k].GainMult = -f - float32(k)
	}
	c.Envelope = envelope.Config{AttackSecs: f, DecaySecs: f + 1, SustainGain: f + 2, ReleaseSecs: f + 3}
	c.Boost = effects.Boost{Boost: f * 2, Gain: -f * 2}
	c.LowPass.Enabled = i%2 == 1
	c.LowPass.CutoffHz = f * 3
	c.LowPass.Resonance = -f
	c.LowPass.ContourHz = f * 4
	c.LowPass.Envelope = envelope.Config{AttackSecs: -f, DecaySecs: -f - 1, SustainGain: -f - 2, ReleaseSecs: -f - 3}
	return c
}

func encodeConfig(t *testing.T, c Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, c); err != nil {
		t.Fatalf("encode config: %v", err)
	}
	return buf.Bytes()
}

func TestConfigMailboxRoundTripUnderConcurrentWrites(t *testing.T) {
	const maxWrites = 1 << 22 // float32 holds every index exactly
	var m mailbox.Mailbox[Config]
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i < maxWrites; i++ {
			select {
			case <-stop:
				return
			default:
			}
			m.Put(configFor(i))
		}
	}()

	ticker := time.NewTicker(100 * time.Microsecond)
	defer ticker.Stop()
	taken, last := 0, 0
	for tick := 0; tick < 300; tick++ {
		<-ticker.C
		got, ok := m.TryTake()
		if !ok {
			continue
		}
		taken++
		i := int(got.Arp.TempoBPM)
		if !bytes.Equal(encodeConfig(t, got), encodeConfig(t, configFor(i))) {
			t.Fatalf("tick %d: snapshot %d is not the value written", tick, i)
		}
		if i <= last {
			t.Fatalf("tick %d: snapshot %d after %d", tick, i, last)
		}
		last = i
	}
	close(stop)
	wg.Wait()
	if taken == 0 {
		t.Fatalf("reader never saw a snapshot")
	}
}
