package wal

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀)
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫)
	FileModePrivate fs.FileMode = 0600
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WAL 是一個以 JSON lines 儲存的 Write-Ahead Log
// 每次 Write 都會 fsync，回傳成功即代表資料已落地
type WAL struct {
	file *os.File
	mu   sync.Mutex
}

// NewWAL 開啟或建立一個 WAL 檔案
// O_RDWR讀寫模式
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func NewWAL(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, FileModeReadOnly)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file}, nil
}

// Write 寫入一筆資料並刷入硬碟
func (w *WAL) Write(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.Write(line); err != nil {
		return err
	}
	return w.file.Sync()
}

// Sync 強制刷入硬碟
func (w *WAL) Sync() error {
	return w.file.Sync()
}

// Close 關閉檔案
func (w *WAL) Close() error {
	return w.file.Close()
}

// ReadAll 依序讀取所有資料
// callback 接收每一行的原始 JSON，避免一次將所有資料載入記憶體
// 檔案尾端若有寫到一半的資料 (程式崩潰)，該行會被截掉，之後的 Write 才不會接在殘缺資料後面
func (w *WAL) ReadAll(callback func(jsonRaw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// 確保從頭讀取
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	reader := bufio.NewReader(w.file)
	// 最後一個完整行的結尾位置
	var offset int64
	for {
		line, err := reader.ReadBytes('\n')
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return nil
			}
			// 沒有換行結尾代表最後一筆沒有寫完
			if err := w.file.Truncate(offset); err != nil {
				return err
			}
			return w.file.Sync()
		}
		if err != nil {
			return err
		}
		offset += int64(len(line))
		if len(line) <= 1 {
			continue
		}
		if err := callback(line[:len(line)-1]); err != nil {
			return err
		}
	}
}
