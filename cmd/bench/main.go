package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	file_adapter "github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/out/file"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
)

// 本工具對單一帳戶灌入大量並發存款，量測檔案後端的吞吐
// 同帳戶的異動會被 per-account lock 序列化，最終餘額必須精準等於總和
const (
	TotalCount  = 10000
	Concurrency = 32
)

func main() {
	dir, err := os.MkdirTemp("", "bankbench")
	if err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	store, err := file_adapter.Open(filepath.Join(dir, "bank.json"))
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel) // 壓測時不輸出逐筆日誌
	bank := usecase.NewBank(store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	sess := bank.NewSession()
	if err := sess.Create(ctx, "bench", "B3nch!Pass", "B3nch!Pass"); err != nil {
		log.Fatalf("failed to create bench account: %v", err)
	}

	const amount = 10 * domain.CurrencyScale

	var wg sync.WaitGroup
	wg.Add(TotalCount)

	sem := make(chan struct{}, Concurrency)

	startTime := time.Now()

	for i := 0; i < TotalCount; i++ {
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := sess.Deposit(ctx, amount); err != nil {
				if idx%1000 == 0 {
					log.Printf("deposit %d failed: %v", idx, err)
				}
			}
		}(i)
	}

	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d deposits in %v\n", TotalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(TotalCount)/elapsed.Seconds())
	fmt.Printf("Final balance: $%s (expected $%s)\n",
		domain.FormatAmount(sess.Balance()),
		domain.FormatAmount(int64(TotalCount)*amount))
}
