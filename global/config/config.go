package config

import (
	"github.com/caiflower/tinyhttp/global/env"
	"github.com/caiflower/tinyhttp/pkg/logger"
	"github.com/caiflower/tinyhttp/pkg/tools"
	"github.com/caiflower/tinyhttp/web/server/config"
)

type DefaultConfig struct {
	LoggerConfig logger.Config  `yaml:"logger"`
	ServerConfig config.Options `yaml:"server"`
}

// LoadDefaultConfig 读取 <ConfigPath>/default.yaml
func LoadDefaultConfig(v *DefaultConfig) (err error) {
	err = tools.LoadConfig(env.ConfigFile("default.yaml"), v)
	return
}

// LoadConfig 读取指定文件，文件不存在时只填充默认值
func LoadConfig(filename string, v *DefaultConfig) error {
	if filename == "" || !tools.FileExist(filename) {
		return tools.DoTagFunc(v, []tools.FnObj{{Fn: tools.SetDefaultValueIfNil}})
	}
	return tools.LoadConfig(filename, v)
}
