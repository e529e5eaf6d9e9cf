package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice override (e.g., "en-us", "vi+f1"); empty uses the request language
	Speed     int    // Speech speed in words per minute at rate 1.0 (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default espeak-ng configuration
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeakProvider synthesizes speech with the local espeak-ng binary
type ESpeakProvider struct {
	config *ESpeakConfig
}

// NewESpeakProvider creates a new espeak-ng provider
func NewESpeakProvider(config *ESpeakConfig) (*ESpeakProvider, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}
	if config == nil {
		config = DefaultConfig()
	}
	return &ESpeakProvider{config: config}, nil
}

// GenerateAudio writes req to outputFile. MP3 output goes through a
// temporary WAV file and ffmpeg.
func (p *ESpeakProvider) GenerateAudio(ctx context.Context, req Request, outputFile string) error {
	if err := ValidateText(req.Text, req.Lang); err != nil {
		return err
	}

	if strings.ToLower(filepath.Ext(outputFile)) == ".mp3" {
		tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"
		if err := p.generateWAV(ctx, req, tempWAV); err != nil {
			return err
		}
		defer os.Remove(tempWAV)
		return ConvertWAVToMP3(ctx, tempWAV, outputFile)
	}
	return p.generateWAV(ctx, req, outputFile)
}

func (p *ESpeakProvider) generateWAV(ctx context.Context, req Request, outputFile string) error {
	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, "espeak-ng", p.args(req, outputFile)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func (p *ESpeakProvider) args(req Request, outputFile string) []string {
	args := []string{
		"-v", p.voice(req.Lang),
		"-s", fmt.Sprintf("%d", p.speed(req.Rate)),
		"-p", fmt.Sprintf("%d", clamp(p.config.Pitch, 0, 99)),
		"-a", fmt.Sprintf("%d", clamp(p.config.Amplitude, 0, 200)),
	}
	if p.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", p.config.WordGap))
	}
	return append(args, "-w", outputFile, req.Text)
}

// voice picks the configured override for the target language, otherwise
// the language code itself, which espeak-ng accepts as a voice name.
func (p *ESpeakProvider) voice(lang string) string {
	if p.config.Voice != "" && strings.HasPrefix(p.config.Voice, lang) {
		return p.config.Voice
	}
	if lang == "" {
		return "en"
	}
	return lang
}

func (p *ESpeakProvider) speed(rate float64) int {
	base := p.config.Speed
	if base == 0 {
		base = 150
	}
	if rate <= 0 {
		rate = 1.0
	}
	return clamp(int(float64(base)*rate), 80, 450)
}

// Name returns the provider name
func (p *ESpeakProvider) Name() string {
	return "espeak-ng"
}

// Settings identifies the voice parameters for caching.
func (p *ESpeakProvider) Settings() string {
	return fmt.Sprintf("%s|%d|%d|%d|%d", p.config.Voice, p.config.Speed, p.config.Pitch,
		p.config.Amplitude, p.config.WordGap)
}

// IsAvailable checks if espeak-ng is installed
func (p *ESpeakProvider) IsAvailable() error {
	return checkESpeakInstalled()
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	if _, err := exec.LookPath("espeak-ng"); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(ctx context.Context, wavFile, mp3File string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
