package util

import (
	"fmt"
	"os"
	"sync"

	"github.com/bytedance/sonic"
)

// ConsoleOutput renders human-readable lines on stderr, keeping stdout free
// for timeline output.
type ConsoleOutput struct {
	mu sync.Mutex
}

func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{}
}

func (c *ConsoleOutput) Write(entry LogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(os.Stderr, "%s [%s] %s\n",
		entry.Timestamp.Format("2006/01/02 15:04:05"), entry.Level, entry.Message)
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends JSON lines to the run log so past builds stay
// machine-searchable.
type FileOutput struct {
	mu   sync.Mutex
	file *os.File
}

func NewFileOutput(path string) (*FileOutput, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{file: file}, nil
}

func (f *FileOutput) Write(entry LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := sonic.Marshal(entry)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.file.Write(data)
	return err
}

func (f *FileOutput) Close() error { return f.file.Close() }
