package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const rotateCheckInterval = 10 * time.Second

// LoggerService routes the process-wide stdlib logger into size-rotated files
// under one folder. Old logs past the retention window get zipped and removed
// once a day.
type LoggerService struct {
	Config map[string]interface{}

	mu       sync.Mutex
	file     *os.File
	stopCh   chan struct{}
	wg       sync.WaitGroup
	maxBytes int64
	keepDays int
	dir      string
}

// configInt reads an int knob that yaml may hand over as int or float64.
func configInt(cfg map[string]interface{}, key string) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func NewLoggerService(config map[string]interface{}) *LoggerService {
	dir, _ := config["folder_path"].(string)
	if dir == "" {
		dir = "./logs"
	}
	return &LoggerService{
		Config:   config,
		stopCh:   make(chan struct{}),
		maxBytes: int64(configInt(config, "max_file_mb")) * 1024 * 1024,
		keepDays: configInt(config, "retention_days"),
		dir:      dir,
	}
}

func (l *LoggerService) Name() string {
	return "logger"
}

func (l *LoggerService) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return err
	}
	if err := l.openNewLogFile(); err != nil {
		return err
	}

	l.wg.Add(1)
	go l.maintenanceLoop()
	return nil
}

func (l *LoggerService) Stop() error {
	close(l.stopCh)
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		log.Println("[LOGGER] stopping")
		return l.file.Close()
	}
	return nil
}

// openNewLogFile swaps the active log file. Caller holds l.mu.
func (l *LoggerService) openNewLogFile() error {
	path := filepath.Join(l.dir, fmt.Sprintf("spendlens_%s.log", time.Now().Format("20060102_150405")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	log.SetOutput(file)
	log.Println("[LOGGER] writing to", path)
	return nil
}

func (l *LoggerService) rotateIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxBytes <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxBytes {
		return nil
	}
	l.file.Close()
	return l.openNewLogFile()
}

func (l *LoggerService) maintenanceLoop() {
	defer l.wg.Done()
	rotate := time.NewTicker(rotateCheckInterval)
	retain := time.NewTicker(24 * time.Hour)
	defer rotate.Stop()
	defer retain.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-rotate.C:
			l.rotateIfNeeded()
		case <-retain.C:
			l.archiveExpiredLogs()
		}
	}
}

// archiveExpiredLogs zips every .log file older than the retention window into
// one dated archive and deletes the originals. Failures on individual files
// just leave them for the next run.
func (l *LoggerService) archiveExpiredLogs() {
	if l.keepDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -l.keepDays)
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return
	}

	zipFile, err := os.Create(filepath.Join(l.dir, fmt.Sprintf("spendlens_logs_%s.zip", time.Now().Format("20060102"))))
	if err != nil {
		return
	}
	defer zipFile.Close()
	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		w, err := zw.Create(entry.Name())
		if err != nil {
			continue
		}
		src, err := os.Open(path)
		if err != nil {
			continue
		}
		io.Copy(w, src)
		src.Close()
		os.Remove(path)
	}
}

func (l *LoggerService) LogAudit(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	log.Printf("[AUDIT] %s", msg)
}

var GlobalLogger *LoggerService

func SetGlobalLogger(l *LoggerService) {
	GlobalLogger = l
}
