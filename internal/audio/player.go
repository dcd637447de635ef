package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// playerCandidates lists Linux players in order of preference
var playerCandidates = [][]string{
	{"paplay"},
	{"aplay", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"play", "-q"},
}

// PlayerCommand returns the command used to play a WAV file on this platform
func PlayerCommand(file string) ([]string, error) {
	switch runtime.GOOS {
	case "darwin":
		return []string{"afplay", file}, nil
	case "linux":
		for _, candidate := range playerCandidates {
			if _, err := exec.LookPath(candidate[0]); err == nil {
				return append(append([]string{}, candidate...), file), nil
			}
		}
		return nil, fmt.Errorf("no audio player found. Install pulseaudio-utils, alsa-utils, ffplay or sox")
	case "windows":
		return []string{"cmd", "/c", "start", "/min", file}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Play plays a WAV file and waits until playback finishes
func Play(ctx context.Context, file string) error {
	argv, err := PlayerCommand(file)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", argv[0], err, string(output))
	}
	return nil
}
