package dlog

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/context"
)

const bufferedDir = "buffered"

// Uploader ships an archived log file somewhere off the box.
type Uploader interface {
	Upload(ctx context.Context, key string, body io.ReadSeeker) error
}

// Archiver moves the day's log files into a dated directory. While it runs,
// writes are diverted to buffer files and replayed afterwards.
type Archiver struct {
	dir        string
	uploader   Uploader
	now        func() time.Time
	processing atomic.Bool
}

func NewArchiver(dir string, uploader Uploader) *Archiver {
	return &Archiver{dir: dir, uploader: uploader, now: time.Now}
}

// Open opens a log file under the archiver's directory together with its buffer.
func (a *Archiver) Open(name string) (*BufferedFile, error) {
	file, err := os.OpenFile(filepath.Join(a.dir, name), os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	buffer, err := os.OpenFile(filepath.Join(a.dir, bufferedDir, name), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &BufferedFile{archiver: a, file: file, buffer: buffer}, nil
}

// Run is the cron entry point.
func (a *Archiver) Run() {
	archiveDir, err := a.archive()
	if err != nil {
		Error("Failed to archive logs", "err", err)
		return
	}
	Info("Archived logs", "dir", archiveDir)
}

func (a *Archiver) archive() (string, error) {
	a.processing.Store(true)
	defer a.processing.Store(false)

	archiveDir, err := a.makeArchiveDir()
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		src := filepath.Join(a.dir, entry.Name())
		dst := filepath.Join(archiveDir, entry.Name())
		written, err := copyFile(dst, src)
		if err != nil {
			return "", err
		}
		if err := os.Truncate(src, 0); err != nil {
			return "", err
		}
		Debug("Copied log", "fileName", entry.Name(), "written", written)
		a.upload(archiveDir, dst)
	}
	return archiveDir, nil
}

// makeArchiveDir creates logs/<yesterday>, adding -1, -2, ... when it already exists.
func (a *Archiver) makeArchiveDir() (string, error) {
	base := filepath.Join(a.dir, a.now().AddDate(0, 0, -1).Format("2006-01-02"))
	archiveDir := base
	for counter := 1; ; counter++ {
		err := os.Mkdir(archiveDir, 0755)
		if err == nil {
			return archiveDir, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
		archiveDir = base + "-" + strconv.Itoa(counter)
	}
}

func (a *Archiver) upload(archiveDir, path string) {
	if a.uploader == nil {
		return
	}
	file, err := os.Open(path)
	if err != nil {
		Error("Failed to open archived log", "fileName", path, "err", err)
		return
	}
	defer file.Close()

	key := "logs/" + filepath.Base(archiveDir) + "/" + filepath.Base(path)
	if err := a.uploader.Upload(context.Background(), key, file); err != nil {
		Error("Failed to upload archived log", "key", key, "err", err)
		return
	}
	Debug("Uploaded archived log", "key", key)
}

func copyFile(dst, src string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return 0, err
	}
	written, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return written, err
}

// BufferedFile is a log file that parks writes in a side file while the archiver
// is moving it.
type BufferedFile struct {
	archiver *Archiver
	file     *os.File
	buffer   *os.File

	m        sync.Mutex
	buffered bool
}

func (b *BufferedFile) Write(p []byte) (int, error) {
	b.m.Lock()
	defer b.m.Unlock()

	if b.archiver.processing.Load() {
		b.buffered = true
		return b.buffer.Write(p)
	}
	if b.buffered {
		if err := b.flush(); err != nil {
			return 0, err
		}
	}
	return b.file.Write(p)
}

func (b *BufferedFile) flush() error {
	if _, err := b.buffer.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(b.file, b.buffer); err != nil {
		return err
	}
	if err := b.buffer.Truncate(0); err != nil {
		return err
	}
	if _, err := b.buffer.Seek(0, io.SeekStart); err != nil {
		return err
	}
	b.buffered = false
	return nil
}

func (b *BufferedFile) Close() error {
	b.m.Lock()
	defer b.m.Unlock()
	err := b.file.Close()
	if bufErr := b.buffer.Close(); err == nil {
		err = bufErr
	}
	return err
}
