package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rms-local/rms-server/config"
	"github.com/rms-local/rms-server/database"
	"github.com/rms-local/rms-server/logger"
	"github.com/rms-local/rms-server/web"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

const defaultDBName = "rms-local.db"

func runWebServer(cfg web.Config) {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	err := database.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()

	server := web.NewServer(cfg)
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(cfg)
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func defaultDBPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, ".rms", defaultDBName)
}

func main() {
	_ = godotenv.Load()

	cfg := web.Config{}

	run := func(cmd *cobra.Command, args []string) {
		if cfg.SetupToken == "" {
			cfg.SetupToken = os.Getenv("RMS_SETUP_TOKEN")
		}
		runWebServer(cfg)
	}

	// The desktop launcher invokes the binary with flags and no
	// subcommand, so the bare root command must start the server too.
	var rootCmd = &cobra.Command{
		Use: "rms-server",
		Run: run,
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the local tournament server",
		Run:   run,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.Host, "host", "127.0.0.1", "listen address")
	rootCmd.PersistentFlags().IntVar(&cfg.Port, "port", 8080, "listen port")
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db-path", defaultDBPath(), "registry database file path")
	rootCmd.PersistentFlags().StringVar(&cfg.WebRoot, "web-dist", "", "built web UI directory")
	rootCmd.PersistentFlags().StringVar(&cfg.SetupToken, "setup-token", "", "shared secret gating admin bootstrap")

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
