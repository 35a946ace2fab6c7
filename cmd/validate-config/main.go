package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/fitness-helper/internal/config"
)

func main() {
	fmt.Println("🔍 Проверка конфигурации...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env файл не найден: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Ошибка валидации конфигурации:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Конфигурация валидна!")
	fmt.Printf("📋 Детали конфигурации:\n")
	fmt.Printf("  - Telegram Token: %s\n", config.MaskSecret(cfg.TelegramToken))
	fmt.Printf("  - DB: %s@%s:%s/%s (sslmode=%s)\n", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName, cfg.DB.SSLMode)
	fmt.Printf("  - State backend: %s\n", cfg.State.Backend)
	if cfg.State.Backend == config.StateBackendRedis {
		fmt.Printf("  - Redis: %s db=%d password=%s\n", cfg.Redis.Addr(), cfg.Redis.DB, config.MaskSecret(cfg.Redis.Password))
		fmt.Printf("  - State TTL: %s\n", cfg.State.TTL)
	}
	fmt.Printf("  - Turn timeout: %s\n", cfg.State.TurnTimeout)
	fmt.Printf("  - Mailbox size: %d\n", cfg.State.MailboxSize)
	if cfg.MetricsAddress != "" {
		fmt.Printf("  - Metrics: %s/metrics\n", cfg.MetricsAddress)
	}
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}
