package system

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/voicetyped/synthd/internal/speech/engine"
	"github.com/voicetyped/synthd/internal/speech/registry"
)

// defaultRate is words per minute, modestly faster than the ~175 wpm most
// OS engines default to.
const defaultRate = 180

func init() {
	registry.TTS.Register("system", func(config map[string]string) (engine.Engine, error) {
		rate := defaultRate
		if s := config["rate"]; s != "" {
			if v, err := strconv.Atoi(s); err == nil && v > 0 {
				rate = v
			}
		}
		return New(config["voice"], rate), nil
	})
}

// SystemTTS implements engine.Engine using the host OS speech synthesizer:
// say on macOS, espeak-ng/espeak on Linux, System.Speech via PowerShell on
// Windows.
type SystemTTS struct {
	voice string // explicit voice name; empty means auto-select
	rate  int    // words per minute

	goos string // overridable for tests
}

// New creates a system-voice engine. An empty voice auto-selects a
// female-sounding installed voice when one can be enumerated.
func New(voice string, rate int) *SystemTTS {
	if rate <= 0 {
		rate = defaultRate
	}
	return &SystemTTS{voice: voice, rate: rate, goos: runtime.GOOS}
}

// Available always reports true: the OS voice is the baseline backend and
// failures surface from Synthesize itself.
func (s *SystemTTS) Available(_ context.Context) bool { return true }

// Synthesize writes synthesized speech for text to outputPath as a WAV
// file. Style parameters are ignored; the OS engine has none.
func (s *SystemTTS) Synthesize(ctx context.Context, text, outputPath string, _ map[string]any) error {
	voice := s.voice
	if voice == "" {
		voice = preferredVoice(s.listVoices(ctx))
	}

	switch s.goos {
	case "darwin":
		return s.synthesizeSay(ctx, text, voice, outputPath)
	case "windows":
		return s.synthesizeSAPI(ctx, text, voice, outputPath)
	default:
		return s.synthesizeEspeak(ctx, text, voice, outputPath)
	}
}

// synthesizeSay renders via the macOS say command directly to WAVE.
func (s *SystemTTS) synthesizeSay(ctx context.Context, text, voice, outputPath string) error {
	args := []string{
		"-o", outputPath,
		"--file-format=WAVE",
		"--data-format=LEI16@22050",
		"-r", strconv.Itoa(s.rate),
	}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, "say", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("say: %w: %s", err, stderr.String())
	}
	return nil
}

// synthesizeEspeak renders via espeak-ng, falling back to espeak.
func (s *SystemTTS) synthesizeEspeak(ctx context.Context, text, voice, outputPath string) error {
	bin, err := espeakBinary()
	if err != nil {
		return err
	}

	args := []string{
		"-w", outputPath,
		"-s", strconv.Itoa(s.rate),
	}
	if voice != "" {
		args = append(args, "-v", voice)
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", bin, err, stderr.String())
	}
	return nil
}

func espeakBinary() (string, error) {
	for _, bin := range []string{"espeak-ng", "espeak"} {
		if path, err := exec.LookPath(bin); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no system speech engine found: install espeak-ng or espeak")
}

// sapiRate maps a words-per-minute setting onto the -10..10 range
// System.Speech uses, with 0 at the ~175 wpm engine default.
func sapiRate(wpm int) int {
	rate := (wpm - 170) / 10
	if rate < -10 {
		rate = -10
	}
	if rate > 10 {
		rate = 10
	}
	return rate
}

// synthesizeSAPI renders via System.Speech on Windows.
func (s *SystemTTS) synthesizeSAPI(ctx context.Context, text, voice, outputPath string) error {
	script := `
Add-Type -AssemblyName System.Speech
$synth = New-Object System.Speech.Synthesis.SpeechSynthesizer
if ($env:SYNTH_VOICE -ne '') {
  try { $synth.SelectVoice($env:SYNTH_VOICE) } catch { }
}
$synth.Rate = [int]$env:SYNTH_RATE
$synth.SetOutputToWaveFile($env:SYNTH_OUT)
$synth.Speak($env:SYNTH_TEXT)
$synth.Dispose()
`
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	cmd.Env = append(os.Environ(),
		"SYNTH_VOICE="+voice,
		"SYNTH_RATE="+strconv.Itoa(sapiRate(s.rate)),
		"SYNTH_OUT="+outputPath,
		"SYNTH_TEXT="+text,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("powershell speech: %w: %s", err, stderr.String())
	}
	return nil
}
