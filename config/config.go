package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/sirupsen/logrus"
)

// YamlConf is the top-level configuration loaded at startup. Unlike the
// per-subsystem flag sets of a full node, this process only ever needs
// one upstream, one engine, one HTTP surface and one logger - there is
// no per-network section because one process instance serves exactly
// one network (see the Non-goals on multi-mempool orchestration).
type YamlConf struct {
	Chain      string     `yaml:"chain"`
	ShareRPC   ShareRPC   `yaml:"share_rpc"`
	Log        Log        `yaml:"log"`
	Engine     Engine     `yaml:"engine"`
	RPCService RPCService `yaml:"rpc_service"`
}

type ShareRPC struct {
	Bitcoin Bitcoin `yaml:"bitcoin"`
}

type Bitcoin struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	UseSSL   bool   `yaml:"use_ssl"`
}

type Log struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Engine mirrors the tunables recognized by mempool.Config. It is kept
// as a separate yaml-tagged struct, rather than embedding mempool.Config
// directly, so the engine package has no reason to know about yaml.
type Engine struct {
	RefreshRateMs     int             `yaml:"refresh_rate_ms"`
	RateWindowSeconds int             `yaml:"rate_window_seconds"`
	LatestCapacity    int             `yaml:"latest_capacity"`
	FlushProtection   FlushProtection `yaml:"flush_protection"`
}

type FlushProtection struct {
	MinBeforeSize  int     `yaml:"min_before_size"`
	RatioThreshold float64 `yaml:"ratio_threshold"`
	CooldownMs     int     `yaml:"cooldown_ms"`
}

// RPCService configures the thin HTTP surface in server/. Addr is the
// bind address, Proxy the URL prefix everything is mounted under
// (useful when this process sits behind a path-based reverse proxy),
// and API carries the per-key rate-limit table enforced by tollbooth.
type RPCService struct {
	Addr    string  `yaml:"addr"`
	Proxy   string  `yaml:"proxy"`
	LogPath string  `yaml:"log_path"`
	Swagger Swagger `yaml:"swagger"`
	API     API     `yaml:"api"`
}

type Swagger struct {
	Host    string   `yaml:"host"`
	Schemes []string `yaml:"schemes"`
}

type API struct {
	APIKeyList      map[string]*APIKey `yaml:"apikey_list"`
	NoLimitApiList  []string           `yaml:"nolimit_api_list"`
	NoLimitHostList []string           `yaml:"nolimit_host_list"`
}

type APIKey struct {
	UserName  string     `yaml:"user_name"`
	RateLimit *RateLimit `yaml:"rate_limit"`
}

type RateLimit struct {
	PerSecond int `yaml:"per_second"`
	PerDay    int `yaml:"per_day"`
	Max       int `yaml:"max"`
	Burst     int `yaml:"burst"`
}

func GetBaseDir() string {
	execPath, err := os.Executable()
	if err != nil {
		return "./."
	}
	return filepath.Dir(execPath)
}

func InitConfig(configFile string) *YamlConf {
	if configFile == "" {
		for i, item := range os.Args {
			if item == "-env" {
				if i < len(os.Args) {
					configFile = os.Args[i+1]
					break
				}
			}
		}
		if configFile == "" {
			configFile = "./.env"
		}
	}
	if !strings.HasPrefix(configFile, "/") {
		configFile = filepath.Join(GetBaseDir(), configFile)
	}

	fmt.Printf("config file: %s\n", configFile)

	cfg, err := LoadYamlConf(configFile)
	if err != nil {
		return nil
	}
	return cfg
}

func LoadYamlConf(cfgPath string) (*YamlConf, error) {
	confFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cfg: %s, error: %s", cfgPath, err)
	}
	defer confFile.Close()

	ret := &YamlConf{}
	decoder := yaml.NewDecoder(confFile)
	err = decoder.Decode(ret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cfg: %s, error: %s", cfgPath, err)
	}

	_, err = logrus.ParseLevel(ret.Log.Level)
	if err != nil {
		ret.Log.Level = "info"
	}

	if ret.Log.Path == "" {
		ret.Log.Path = "log"
	}
	ret.Log.Path = filepath.FromSlash(ret.Log.Path)
	if ret.Log.Path[len(ret.Log.Path)-1] != filepath.Separator {
		ret.Log.Path += string(filepath.Separator)
	}

	if ret.Engine.RefreshRateMs <= 0 {
		ret.Engine.RefreshRateMs = 2000
	}
	if ret.Engine.RateWindowSeconds <= 0 {
		ret.Engine.RateWindowSeconds = 150
	}
	if ret.Engine.LatestCapacity <= 0 {
		ret.Engine.LatestCapacity = 6
	}
	if ret.Engine.FlushProtection.MinBeforeSize <= 0 {
		ret.Engine.FlushProtection.MinBeforeSize = 20000
	}
	if ret.Engine.FlushProtection.RatioThreshold <= 0 {
		ret.Engine.FlushProtection.RatioThreshold = 0.80
	}
	if ret.Engine.FlushProtection.CooldownMs <= 0 {
		ret.Engine.FlushProtection.CooldownMs = 120000
	}

	rpcService := &ret.RPCService
	if rpcService.Addr == "" {
		rpcService.Addr = "0.0.0.0:80"
	}

	if rpcService.Proxy == "" {
		rpcService.Proxy = "/"
	}
	if rpcService.Proxy[0] != '/' {
		rpcService.Proxy = "/" + rpcService.Proxy
	}

	if rpcService.LogPath == "" {
		rpcService.LogPath = "log"
	}

	if rpcService.Swagger.Host == "" {
		rpcService.Swagger.Host = "127.0.0.1"
	}

	if len(rpcService.Swagger.Schemes) == 0 {
		rpcService.Swagger.Schemes = []string{"http"}
	}

	return ret, nil
}
