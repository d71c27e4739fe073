package env

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
)

var (
	LocalhostIP string
	ConfigPath  string
)

func init() {
	findLocalHostIP()
	initConfigPath()
}

func initConfigPath() {
	ConfigPath = os.Getenv("CONFIG_PATH")
	if ConfigPath == "" {
		ConfigPath = "./etc"
	}
}

func findLocalHostIP() {
	LocalhostIP = "127.0.0.1"
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		fmt.Printf("[env] get interface addrs err: %s\n", err)
		return
	}

	for _, address := range addrs {
		// 检查ip地址判断是否回环地址
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				LocalhostIP = ipnet.IP.String()
			}
		}
	}
}

func GetLocalHostIP() string {
	return LocalhostIP
}

func SetDefaultConfigPath(path string) {
	ConfigPath = path
}

// ConfigFile ConfigPath下的配置文件
func ConfigFile(name string) string {
	return filepath.Join(ConfigPath, name)
}
