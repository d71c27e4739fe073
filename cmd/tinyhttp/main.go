package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/caiflower/tinyhttp/global"
	globalconfig "github.com/caiflower/tinyhttp/global/config"
	"github.com/caiflower/tinyhttp/global/env"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/web/server"
)

var (
	host       = flag.String("host", "", "listen ip address, overrides server.addr")
	port       = flag.Int("port", 0, "listen port, overrides server.addr")
	root       = flag.String("root", "", "document root, overrides server.documentRoot")
	configFile = flag.String("config", "", "config file, default $CONFIG_PATH/default.yaml")
)

func main() {
	flag.Parse()

	cfg := globalconfig.DefaultConfig{}
	if err := loadConfig(&cfg); err != nil {
		fmt.Printf("load config failed. Error: %s\n", err.Error())
		os.Exit(1)
	}
	applyFlags(&cfg)

	logger.InitLogger(&cfg.LoggerConfig)
	defer logger.DefaultLogger().Close()

	httpServer := server.NewHttpServer(cfg.ServerConfig)
	global.DefaultResourceManger.AddDaemon(httpServer)
	if err := global.DefaultResourceManger.Signal(); err != nil {
		logger.DefaultLogger().Close()
		os.Exit(1)
	}
}

func loadConfig(cfg *globalconfig.DefaultConfig) error {
	if *configFile != "" {
		return globalconfig.LoadConfig(*configFile, cfg)
	}
	return globalconfig.LoadConfig(env.ConfigFile("default.yaml"), cfg)
}

func applyFlags(cfg *globalconfig.DefaultConfig) {
	if *host != "" || *port != 0 {
		h, p, err := net.SplitHostPort(cfg.ServerConfig.Addr)
		if err != nil {
			h, p = "0.0.0.0", "80"
		}
		if *host != "" {
			h = *host
		}
		if *port != 0 {
			p = strconv.Itoa(*port)
		}
		cfg.ServerConfig.Addr = net.JoinHostPort(h, p)
	}
	if *root != "" {
		cfg.ServerConfig.DocumentRoot = *root
	}
}
