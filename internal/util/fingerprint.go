package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// CalculateFileFingerprint calculates a CRC32 fingerprint over the last 2KB
// of a file. Captured artifacts only ever grow at the tail (multi-buffer
// logcat concatenation), so the tail is the cheapest change signal.
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	size := stat.Size()
	readSize := int64(2048)
	if size < readSize {
		readSize = size
	}

	if _, err = file.Seek(-readSize, io.SeekEnd); err != nil {
		return "", err
	}

	data := make([]byte, readSize)
	if _, err = file.Read(data); err != nil && err != io.EOF {
		return "", err
	}

	crc := crc32.ChecksumIEEE(data)
	return fmt.Sprintf("%08x", crc), nil
}
