package ffmpegdecoder

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// findFFmpeg locates the ffmpeg executable: an explicit path wins,
// then PATH, then conventional install locations.
func findFFmpeg(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, customPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}

	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files (x86)\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}

	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// runFFmpeg decodes an H.264 elementary stream into raw yuv420p frames
// on stdout. The stream goes through a temp file; ffmpeg's pipe input
// buffers interact badly with short streams.
func runFFmpeg(ffmpegPath string, es []byte) ([]byte, error) {
	inputFile, err := os.CreateTemp("", "stillcut_*.h264")
	if err != nil {
		return nil, fmt.Errorf("create input temp file: %w", err)
	}
	inputPath := inputFile.Name()
	defer os.Remove(inputPath)

	if _, err := inputFile.Write(es); err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("write stream data: %w", err)
	}
	inputFile.Close()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ffmpegPath,
		"-y",
		"-f", "h264",
		"-i", inputPath,
		"-f", "rawvideo",
		"-pix_fmt", "yuv420p",
		"pipe:1",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}
