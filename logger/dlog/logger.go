package dlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fuad-daoud/bot-dashboard/logger/dlog/prettylog"
	"github.com/robfig/cron/v3"
	slogmulti "github.com/samber/slog-multi"
)

// Log is the process logger. It writes to stderr until Setup replaces it.
var Log = slog.Default()

type Config struct {
	Dir         string
	Level       string
	ArchiveCron string
	Uploader    Uploader
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Setup points Log at the pretty, text and json log files under cfg.Dir and
// schedules their archiving. The returned func stops the schedule and closes the files.
func Setup(cfg Config) (func(), error) {
	if err := os.MkdirAll(filepath.Join(cfg.Dir, bufferedDir), os.ModePerm); err != nil {
		return nil, err
	}
	archiver := NewArchiver(cfg.Dir, cfg.Uploader)

	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(cfg.Level),
	}

	var files []*BufferedFile
	open := func(name string) (*BufferedFile, error) {
		file, err := archiver.Open(name)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
		return file, nil
	}
	closeAll := func() {
		for _, file := range files {
			_ = file.Close()
		}
	}

	pretty, err := open("pretty.log")
	if err != nil {
		closeAll()
		return nil, err
	}
	text, err := open("default.txt")
	if err != nil {
		closeAll()
		return nil, err
	}
	jsonFile, err := open("default.json")
	if err != nil {
		closeAll()
		return nil, err
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.ArchiveCron, archiver.Run); err != nil {
		closeAll()
		return nil, fmt.Errorf("archive schedule %q: %w", cfg.ArchiveCron, err)
	}

	Log = slog.New(slogmulti.Fanout(
		prettylog.NewHandler(os.Stdout, pretty, opts),
		slog.NewTextHandler(text, opts),
		slog.NewJSONHandler(jsonFile, opts),
	))
	c.Start()
	Info("Created archive cron", "schedule", cfg.ArchiveCron, "dir", cfg.Dir)

	return func() {
		<-c.Stop().Done()
		closeAll()
	}, nil
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
