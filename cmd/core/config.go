package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-slot-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-slot-bank/pkg/mysql"
	"github.com/JoeShih716/go-slot-bank/pkg/redis"
	zaplog "github.com/JoeShih716/go-slot-bank/pkg/zap"
)

// LedgerType 帳本實作
type LedgerType string

const (
	LedgerTypeMySQL LedgerType = "mysql" // 每筆異動一個 DB 交易
	LedgerTypeMutex LedgerType = "mutex" // 記憶體 + RWMutex + WAL
	LedgerTypeLMAX  LedgerType = "lmax"  // 記憶體 + 單一寫入 goroutine + WAL
	LedgerTypeJSON  LedgerType = "json"  // 記憶體 + 每次異動寫回 JSON 文件
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Ledger   LedgerType         `yaml:"ledger"`
	DataDir  string             `yaml:"data_dir"`
	WALPath  string             `yaml:"wal_path"`
	GRPC     ServerConfig       `yaml:"grpc"`
	HTTP     ServerConfig       `yaml:"http"`
	Log      zaplog.Config      `yaml:"log"`
	Defaults domain.Settings    `yaml:"defaults"`
	MySQL    mysql.Config       `yaml:"mysql"`
	Redis    redis.Config       `yaml:"redis"`
	Paytable map[string][]int64 `yaml:"paytable"`
}

func loadConfig(path string) (*Config, error) {
	cfgData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := &Config{Defaults: domain.DefaultSettings()}
	if err := yaml.Unmarshal(cfgData, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults 補全預設配置 (如果 yaml 沒寫)
func (c *Config) applyDefaults() {
	if c.Ledger == "" {
		c.Ledger = LedgerTypeJSON
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.WALPath == "" {
		c.WALPath = filepath.Join(c.DataDir, "wal.log")
	}
	if c.GRPC.Addr == "" {
		c.GRPC.Addr = ":50051"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.Log.App == "" {
		c.Log.App = "slot-bank"
	}
	c.MySQL.ApplyDefaults()
}
