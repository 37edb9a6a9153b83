package ui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const bannerText = `
 ___  __ _| | __ _ _ __ _   _ ___| |_ __ _| |_ ___
/ __|/ _' | |/ _' | '__| | | / __| __/ _' | __/ __|
\__ \ (_| | | (_| | |  | |_| \__ \ || (_| | |_\__ \
|___/\__,_|_|\__,_|_|   \__, |___/\__\__,_|\__|___/
                        |___/   hh.ru · superjob.ru
`

// ColorizeText applies a random colour fade to the input text
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	endColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	half := len(chars) / 2
	if half == 0 {
		return text
	}

	var colored strings.Builder
	for i, ch := range chars {
		colored.WriteString(startColor.Fade(0, float32(len(chars)), float32(i%half), endColor).Sprint(ch))
	}
	return colored.String()
}

// PrintBanner displays the application banner
func PrintBanner(w io.Writer, silence bool) {
	if !silence {
		fmt.Fprintln(w, ColorizeText(bannerText))
	}
}
