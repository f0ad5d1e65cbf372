package main

import (
	"fmt"
	"os"

	"todoList/internal/client"
	"todoList/internal/config"
	"todoList/internal/controller"
	"todoList/internal/logger"
	"todoList/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	configPath := pflag.StringP("config", "c", "", "путь к config.yml")
	baseURL := pflag.String("api", "", "адрес API задач (перекрывает client.base_url)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	check(err)
	if *baseURL != "" {
		cfg.Client.BaseURL = *baseURL
	}

	// терминал занят интерфейсом: логи только в файл, без файла логов нет
	if cfg.Client.LogFile != "" {
		check(logger.Init(cfg.Logging.Development, cfg.Client.LogFile))
		defer logger.Sync()
	}

	api := client.New(cfg.Client.BaseURL)
	logger.Info("App: Запуск TUI", zap.String("api", api.BaseURL()))

	p := tea.NewProgram(tui.New(controller.New(api)))
	p.EnterAltScreen()
	defer p.ExitAltScreen()

	if err := p.Start(); err != nil {
		logger.Error("App: TUI завершился с ошибкой", err)
		p.ExitAltScreen()
		check(err)
	}
}
