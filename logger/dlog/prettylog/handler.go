// Package prettylog renders slog records as a colored single line followed by
// the record's attributes as indented JSON.
package prettylog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/net/context"
)

type color int

const (
	timeFormat = "[2006-01-02 15:04:05.000]"

	reset = "\033[0m"

	green        color = 32
	cyan         color = 36
	lightGray    color = 37
	lightBlue    color = 94
	lightRed     color = 91
	lightYellow  color = 93
	lightMagenta color = 95
	white        color = 97
)

func colorize(code color, v string) string {
	return "\033[" + strconv.Itoa(int(code)) + "m" + v + reset
}

// Handler writes colored lines to stdout and plain lines to file. Debug records
// only go to file.
type Handler struct {
	inner  slog.Handler
	buf    *bytes.Buffer
	m      *sync.Mutex
	stdout io.Writer
	file   io.Writer
}

func NewHandler(stdout, file io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	buf := &bytes.Buffer{}
	return &Handler{
		inner: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: dropBuiltins,
		}),
		buf:    buf,
		m:      &sync.Mutex{},
		stdout: stdout,
		file:   file,
	}
}

func dropBuiltins(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey, slog.LevelKey, slog.MessageKey:
		return slog.Attr{}
	}
	return a
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}

func levelColor(level slog.Level) color {
	switch {
	case level <= slog.LevelDebug:
		return lightGray
	case level <= slog.LevelInfo:
		return cyan
	case level < slog.LevelWarn:
		return lightBlue
	case level < slog.LevelError:
		return lightYellow
	case level <= slog.LevelError+1:
		return lightRed
	default:
		return lightMagenta
	}
}

// attrs runs the record through the inner JSON handler and decodes the result.
func (h *Handler) attrs(ctx context.Context, r slog.Record) (map[string]any, error) {
	h.m.Lock()
	defer func() {
		h.buf.Reset()
		h.m.Unlock()
	}()
	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}
	var attrs map[string]any
	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}
	return attrs, nil
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	attrs, err := h.attrs(ctx, r)
	if err != nil {
		return err
	}

	var location string
	if source, ok := attrs[slog.SourceKey].(map[string]any); ok {
		file, _ := source["file"].(string)
		line, _ := source["line"].(float64)
		location = file + ":" + strconv.Itoa(int(line))
		attrs["called_function"] = source["function"]
		delete(attrs, slog.SourceKey)
	}

	var fields string
	if len(attrs) > 0 {
		b, err := json.MarshalIndent(attrs, "", "  ")
		if err != nil {
			return fmt.Errorf("error when marshaling attrs: %w", err)
		}
		fields = string(b)
	}

	plain := h.line(r, location, fields, func(_ color, v string) string { return v })
	if _, err := io.WriteString(h.file, plain); err != nil {
		return err
	}
	if r.Level <= slog.LevelDebug {
		return nil
	}
	_, err = io.WriteString(h.stdout, h.line(r, location, fields, colorize))
	return err
}

func (h *Handler) line(r slog.Record, location, fields string, paint func(color, string) string) string {
	parts := []string{
		paint(lightGray, r.Time.Format(timeFormat)),
		paint(levelColor(r.Level), r.Level.String()+":"),
	}
	if location != "" {
		parts = append(parts, location)
	}
	parts = append(parts, paint(white, r.Message))
	if fields != "" {
		parts = append(parts, paint(green, fields))
	}
	return strings.Join(parts, " ") + "\n"
}
