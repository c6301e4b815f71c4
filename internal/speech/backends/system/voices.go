package system

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/voicetyped/synthd/internal/speech/engine"
)

// femaleHints are matched case-insensitively against each voice's name,
// description and gender. First matching voice wins.
var femaleHints = []string{"zira", "female"}

// preferredVoice picks a female-sounding voice from the installed set, or
// "" to let the engine use its default.
func preferredVoice(voices []engine.Voice) string {
	for _, v := range voices {
		haystack := strings.ToLower(v.Name + " " + v.Description + " " + v.Gender)
		for _, hint := range femaleHints {
			if strings.Contains(haystack, hint) {
				return v.Name
			}
		}
	}
	return ""
}

// listVoices enumerates installed voices. Enumeration is best-effort: on
// any failure it returns nil and synthesis proceeds with the default
// voice.
func (s *SystemTTS) listVoices(ctx context.Context) []engine.Voice {
	switch s.goos {
	case "darwin":
		out, err := run(ctx, "say", "-v", "?")
		if err != nil {
			return nil
		}
		return parseSayVoices(out)
	case "windows":
		out, err := run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command",
			`Add-Type -AssemblyName System.Speech; (New-Object System.Speech.Synthesis.SpeechSynthesizer).GetInstalledVoices() | ForEach-Object { $_.VoiceInfo.Name + "|" + $_.VoiceInfo.Gender }`)
		if err != nil {
			return nil
		}
		return parseSAPIVoices(out)
	default:
		bin, err := espeakBinary()
		if err != nil {
			return nil
		}
		out, err := run(ctx, bin, "--voices")
		if err != nil {
			return nil
		}
		return parseEspeakVoices(out)
	}
}

func run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return stdout.String(), nil
}

// parseSayVoices parses `say -v ?` output. Each line looks like:
//
//	Samantha            en_US    # Hello! My name is Samantha.
func parseSayVoices(out string) []engine.Voice {
	var voices []engine.Voice
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, rest, _ := strings.Cut(line, " ")
		desc := ""
		if _, after, ok := strings.Cut(rest, "#"); ok {
			desc = strings.TrimSpace(after)
		}
		voices = append(voices, engine.Voice{Name: name, Description: desc})
	}
	return voices
}

// parseEspeakVoices parses `espeak --voices` output. Columns are:
//
//	Pty Language Age/Gender VoiceName          File          Other Languages
//	 5  en-US          M  english-us         other/en-US
func parseEspeakVoices(out string) []engine.Voice {
	var voices []engine.Voice
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		gender := ""
		switch {
		case strings.HasSuffix(fields[2], "F"):
			gender = "female"
		case strings.HasSuffix(fields[2], "M"):
			gender = "male"
		}
		voices = append(voices, engine.Voice{
			Name:     fields[3],
			Language: fields[1],
			Gender:   gender,
		})
	}
	return voices
}

// parseSAPIVoices parses the "Name|Gender" lines emitted by the
// PowerShell enumeration snippet.
func parseSAPIVoices(out string) []engine.Voice {
	var voices []engine.Voice
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, gender, _ := strings.Cut(line, "|")
		voices = append(voices, engine.Voice{Name: name, Gender: strings.ToLower(gender)})
	}
	return voices
}
