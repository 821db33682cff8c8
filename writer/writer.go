package writer

import (
	"fmt"
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/utils"
)

type WriteStreamer struct {
	Data           [][2]float64
	SamplesWritten int
}

func (ws *WriteStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if ws.SamplesWritten >= len(ws.Data) {
		return 0, false
	}

	n = copy(samples, ws.Data[ws.SamplesWritten:])
	utils.Assert(n <= len(samples), "Index out of bounds")

	ws.SamplesWritten += n
	return n, true
}

func (ws *WriteStreamer) Err() error {
	return nil
}

// CaptureFormat is the WAV format of a capture: two 16 bit channels
func CaptureFormat(sampleRate int) beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}
}

func SaveAsWAV(filename string, wavFormat beep.Format, samples [][2]float64) error {
	fmt.Printf("* Writing to '%s' (%d samples, %d channels)\n",
		filename, len(samples), wavFormat.NumChannels)

	outWAVFile, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", filename)
	}
	defer outWAVFile.Close()

	outStream := &WriteStreamer{Data: samples}
	if err := wav.Encode(outWAVFile, outStream, wavFormat); err != nil {
		return errors.Wrapf(err, "writing samples to '%s'", filename)
	}
	return nil
}
