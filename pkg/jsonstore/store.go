// Package jsonstore 提供以單一 JSON 檔案儲存的文件庫
// 讀取時若格式錯誤視為損毀，寫入時先寫暫存檔再 rename，確保檔案永遠完整
package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrCorrupted 檔案內容不是合法的 JSON
var ErrCorrupted = errors.New("jsonstore: corrupted document")

// File 單一 JSON 文件
type File struct {
	path string
	mu   sync.Mutex
}

// Open 開啟文件，必要時建立上層目錄
func Open(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: create folder: %w", err)
	}
	return &File{path: path}, nil
}

// Path 檔案路徑
func (f *File) Path() string {
	return f.path
}

// Load 讀取文件到 v
// 回傳:
//
//	found: 檔案是否存在
//	error: 格式錯誤時為 ErrCorrupted
func (f *File) Load(v any) (found bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupted, f.path, err)
	}
	return true, nil
}

// Save 將 v 原子地寫入文件
func (f *File) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}
