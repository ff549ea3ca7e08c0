// Command esp_synth_render renders a Lua patch's score to a WAV file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackss011/esp-synth"
)

const defaultPatch = `osc(1, {wave = "saw", mult = 1, gain = 0.5})
osc(2, {wave = "square", mult = 0.5, gain = 0.3})
envelope({attack = 0.01, decay = 0.3, sustain = 0.6, release = 0.4})
filter({cutoff = 1200, resonance = 0.5, contour = 3000})
note_on(57, 100)
wait(500)
note_on(60, 100)
wait(500)
note_off(60)
wait(500)
note_off(57)
`

func main() {
	var (
		patchPath = flag.String("patch", "", "Lua patch file (default: built-in demo)")
		outPath   = flag.String("o", "out.wav", "output WAV path")
		seconds   = flag.Float64("seconds", 0, "render length; 0 renders the score plus its release")
		printCfg  = flag.Bool("print", false, "print the patch configuration as Lua and exit")
	)
	flag.Parse()

	var (
		p   *espsynth.Patch
		err error
	)
	if *patchPath != "" {
		p, err = espsynth.LoadPatchFile(*patchPath)
	} else {
		p, err = espsynth.LoadPatch(defaultPatch)
	}
	if err != nil {
		log.Fatal(err)
	}
	if *printCfg {
		fmt.Print(espsynth.FormatPatch(p.Config))
		return
	}

	samples := espsynth.RenderPatch(p, *seconds)
	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	w := bufio.NewWriter(f)
	if err := espsynth.EncodeWAV(w, samples); err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%.2fs)\n", *outPath, float64(len(samples))/espsynth.SampleRate)
}
