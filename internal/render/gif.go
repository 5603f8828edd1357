package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/banshee-data/schelling/internal/sim"
)

const (
	// cellPixels is the rendered edge length of one board cell.
	cellPixels = 8

	// frameDelay is the inter-frame delay in hundredths of a second.
	frameDelay = 8

	// finalFrameDelay holds the terminal state on screen before the
	// animation loops.
	finalFrameDelay = 150
)

// gifPalette orders colours by cell state value.
var gifPalette = color.Palette{colorEmpty, colorGroupA, colorGroupB}

// SaveGIF renders the snapshot sequence as a looping animated GIF.
func SaveGIF(snaps []sim.Snapshot, path string) error {
	if len(snaps) == 0 {
		return fmt.Errorf("no snapshots to animate")
	}

	anim := gif.GIF{LoopCount: 0}
	for i, snap := range snaps {
		frame := renderFrame(snap)
		delay := frameDelay
		if i == len(snaps)-1 {
			delay = finalFrameDelay
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating gif %s: %w", path, err)
	}
	defer f.Close()

	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}

func renderFrame(snap sim.Snapshot) *image.Paletted {
	side := snap.Size * cellPixels
	frame := image.NewPaletted(image.Rect(0, 0, side, side), gifPalette)
	for r := 0; r < snap.Size; r++ {
		for c := 0; c < snap.Size; c++ {
			idx := uint8(snap.At(r, c))
			for y := r * cellPixels; y < (r+1)*cellPixels; y++ {
				for x := c * cellPixels; x < (c+1)*cellPixels; x++ {
					frame.SetColorIndex(x, y, idx)
				}
			}
		}
	}
	return frame
}
