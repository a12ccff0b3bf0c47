package view

import (
	"bytes"

	"github.com/logrusorgru/aurora"

	"torolife/src/universe"
)

//Glyphs are the strings printed for live and dead cells
type Glyphs struct {
	Live string
	Dead string
}

//PlainGlyphs match the universe's own String rendering
var PlainGlyphs = Glyphs{Live: "◼", Dead: "◻"}

//ColorGlyphs returns the terminal glyphs, live cells are coloured unless au has colours disabled
func ColorGlyphs(au aurora.Aurora) Glyphs {
	return Glyphs{
		Live: au.Green("█").BgBrightGreen().String(),
		Dead: "░",
	}
}

//WriteField renders the universe row by row into b, rows separated by a line feed
//maxW and maxH crop the output when positive, the return value reports the cropping
func WriteField(b *bytes.Buffer, u *universe.Universe, g Glyphs, maxW int, maxH int) (cropped bool) {
	h, w := int(u.Height()), int(u.Width())
	if maxW > 0 && w > maxW {
		w, cropped = maxW, true
	}
	if maxH > 0 && h > maxH {
		h, cropped = maxH, true
	}
	for row := 0; row < h; row++ {
		if row != 0 {
			b.WriteByte('\n')
		}
		for column := 0; column < w; column++ {
			if u.Cell(uint32(row), uint32(column)) == universe.Alive {
				b.WriteString(g.Live)
			} else {
				b.WriteString(g.Dead)
			}
		}
	}
	return
}
