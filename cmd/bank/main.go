package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	cli_adapter "github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/in/cli"
	file_adapter "github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/out/file"
	memory_adapter "github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/out/mysql"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
	"github.com/JoeShih716/go-file-bank/pkg/mysql"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	LogLevel string        `yaml:"log_level"`
	Storage  StorageConfig `yaml:"storage"`
	MySQL    mysql.Config  `yaml:"mysql"`
}

type StorageConfig struct {
	// Backend 儲存後端: "file" (預設), "memory", "mysql"
	Backend string `yaml:"backend"`
	File    struct {
		Path string `yaml:"path"`
	} `yaml:"file"`
}

func main() {
	log := logrus.New()

	// 1. 載入設定
	cfg := loadConfig(log)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	// 2. 初始化儲存後端
	var store usecase.Store
	switch cfg.Storage.Backend {
	case "file":
		fileStore, err := file_adapter.Open(cfg.Storage.File.Path)
		if err != nil {
			log.Fatalf("Failed to open ledger file: %v", err)
		}
		log.Infof("Ledger file ready at %s", fileStore.Path())
		store = fileStore
	case "memory":
		log.Warn("Using in-memory storage, data will not survive a restart")
		store = memory_adapter.NewStore()
	case "mysql":
		client, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer client.Close()
		mysqlStore, err := mysql_adapter.NewStore(client)
		if err != nil {
			log.Fatalf("Failed to init MySQL store: %v", err)
		}
		log.Info("Connected to MySQL successfully")
		store = mysqlStore
	default:
		log.Fatalf("Invalid storage backend: %s", cfg.Storage.Backend)
	}

	// 3. 初始化核心並啟動 console 介面
	bank := usecase.NewBank(store, log)
	ui := cli_adapter.NewUI(bank, os.Stdin, os.Stdout)
	ui.Run(context.Background())
}

func loadConfig(log *logrus.Logger) Config {
	var cfg Config
	cfgData, err := os.ReadFile(defaultConfigPath)
	if err == nil {
		if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
			log.Fatalf("Failed to parse config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("Failed to read config file: %v", err)
	}

	// 補全預設配置 (如果 yaml 沒寫或檔案不存在)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "file"
	}
	if cfg.Storage.File.Path == "" {
		cfg.Storage.File.Path = "data/bank.json"
	}
	cfg.MySQL.FillDefaults()
	return cfg
}
