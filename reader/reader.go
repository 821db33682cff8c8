package reader

import (
	"os"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/handegar/csyncpio/csync"
	"github.com/handegar/csyncpio/settings"
	"github.com/handegar/csyncpio/sim"
)

// FileConfig is the layout of the YAML config file
type FileConfig struct {
	CSync      csync.Config `yaml:",inline"`
	Simulation sim.Vertical `yaml:"simulation"`
}

// DefaultFileConfig is used for everything the file leaves out
func DefaultFileConfig() FileConfig {
	return FileConfig{
		CSync: csync.DefaultConfig(),
		Simulation: sim.Vertical{
			LinesPerFrame: settings.LinesPerFrame,
			VSyncLines:    settings.VSyncLines,
			Frames:        settings.Frames,
		},
	}
}

// ParseConfig reads a YAML config on top of the defaults. Unknown keys
// are an error.
func ParseConfig(data []byte) (FileConfig, error) {
	cfg := DefaultFileConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing config")
	}
	return cfg, nil
}

func ReadConfig(filename string) (FileConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return DefaultFileConfig(), errors.Wrapf(err, "reading config '%s'", filename)
	}
	return ParseConfig(data)
}

// ReadWAV opens a stimulus file. The caller closes the returned file.
func ReadWAV(filename string) (*os.File, beep.Streamer, beep.Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, beep.Format{}, errors.Wrapf(err, "opening '%s'", filename)
	}

	stream, wavFormat, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, beep.Format{}, errors.Wrapf(err, "decoding '%s'", filename)
	}
	if wavFormat.NumChannels != 2 {
		f.Close()
		return nil, nil, beep.Format{}, errors.Errorf("'%s' has %d channels, need HSYNC left and VSYNC right",
			filename, wavFormat.NumChannels)
	}

	return f, stream, wavFormat, nil
}
