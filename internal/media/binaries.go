package media

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

var ErrBinaryNotFound = errors.New("ffmpeg binary not found")

// binary is looked up on first use, so a missing ffmpeg does not break
// commands that only need ffprobe
type binary struct {
	name   string
	envKey string

	once sync.Once
	path string
	err  error
}

var (
	ffmpegBinary  = &binary{name: "ffmpeg", envKey: "SUBSTYLE_FFMPEG_PATH"}
	ffprobeBinary = &binary{name: "ffprobe", envKey: "SUBSTYLE_FFPROBE_PATH"}
)

func (b *binary) resolved() (string, error) {
	b.once.Do(func() {
		b.path, b.err = resolve(b.name, b.envKey, os.Getenv, exec.LookPath)
	})
	return b.path, b.err
}

func FFmpegPath() (string, error) {
	return ffmpegBinary.resolved()
}

func FFprobePath() (string, error) {
	return ffprobeBinary.resolved()
}

func resolve(
	name, envKey string,
	getenv func(string) string,
	lookPath func(string) (string, error),
) (string, error) {
	if path := getenv(envKey); path != "" {
		return path, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s (set %s): %v", ErrBinaryNotFound, name, envKey, err)
	}
	return found, nil
}
