package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cryptoai/bot"
	"cryptoai/config"
	"cryptoai/utils/log"
)

func main() {
	cfg, err := config.Load(os.Getenv("CRYPTOAI_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(cfg.Logging.Level)

	cryptoAI, err := bot.NewCryptoAI(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := cryptoAI.SetupSubscriptions(context.Background()); err != nil {
		log.Fatal(err)
	}

	cryptoAI.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Infof("Shutting down gracefully...")

	cryptoAI.Stop()
	time.Sleep(1 * time.Second)
	log.Infof("Shutdown complete.")
}
