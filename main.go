package main

import (
	"context"
	"time"

	"github.com/sat20-labs/mempoolsync/common"
	"github.com/sat20-labs/mempoolsync/config"
	"github.com/sat20-labs/mempoolsync/mempool"
	"github.com/sat20-labs/mempoolsync/nodeadapter"
	"github.com/sat20-labs/mempoolsync/server"
	"github.com/sat20-labs/mempoolsync/share/bitcoin_rpc"
)

func init() {
	config.InitSigInt()
}

func main() {
	yamlcfg := config.InitConfig("")
	config.InitLog(yamlcfg)
	if yamlcfg == nil {
		common.Log.Error("failed to load config")
		return
	}

	common.Log.Info("Starting...")
	defer func() {
		config.ReleaseRes()
		common.Log.Info("shut down")
	}()

	if err := initRpc(yamlcfg); err != nil {
		common.Log.Error(err)
		return
	}

	engine, err := newEngine(yamlcfg)
	if err != nil {
		common.Log.Error(err)
		return
	}
	defer engine.Close()

	if _, err := initRpcService(yamlcfg, engine); err != nil {
		common.Log.Error(err)
		return
	}

	stopChan := make(chan bool)
	config.RegistSigIntFunc(func() {
		common.Log.Info("handle SIGINT for engine shutdown")
		stopChan <- true
	})

	common.Log.Info("mempool sync engine starting...")
	runLoop(engine, yamlcfg.Engine.RefreshRateMs, stopChan)

	common.Log.Info("prepare to release resource...")
}

// newEngine builds the engine and its upstream adapter. Flush
// protection and rate-window tunables all come straight out of the
// loaded config; see config.Engine.
func newEngine(conf *config.YamlConf) (*mempool.Engine, error) {
	cfg := mempool.Config{
		RefreshRateMs:     conf.Engine.RefreshRateMs,
		RateWindowSeconds: conf.Engine.RateWindowSeconds,
		LatestCapacity:    conf.Engine.LatestCapacity,
		FlushProtection: mempool.FlushProtectionConfig{
			MinBeforeSize:  conf.Engine.FlushProtection.MinBeforeSize,
			RatioThreshold: conf.Engine.FlushProtection.RatioThreshold,
			Cooldown:       time.Duration(conf.Engine.FlushProtection.CooldownMs) * time.Millisecond,
		},
	}
	upstream := nodeadapter.New(bitcoin_rpc.ShareBitconRpc)
	return mempool.NewEngine(upstream, cfg, nil)
}

// runLoop drives RunOnce at the configured cadence and RefreshInfo once
// per second alongside it, until stopChan fires.
func runLoop(engine *mempool.Engine, refreshRateMs int, stopChan chan bool) {
	if refreshRateMs <= 0 {
		refreshRateMs = 2000
	}
	passTicker := time.NewTicker(time.Duration(refreshRateMs) * time.Millisecond)
	defer passTicker.Stop()
	infoTicker := time.NewTicker(time.Second)
	defer infoTicker.Stop()

	for {
		select {
		case <-passTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := engine.RunOnce(ctx); err != nil {
				common.Log.WithError(err).Warn("reconciliation pass failed")
			}
			cancel()
		case <-infoTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := engine.RefreshInfo(ctx); err != nil {
				common.Log.WithError(err).Warn("refresh mempool info failed")
			}
			cancel()
		case <-stopChan:
			return
		}
	}
}

func initRpcService(conf *config.YamlConf, engine *mempool.Engine) (*server.Service, error) {
	rpcService := conf.RPCService
	addr := rpcService.Addr
	host := rpcService.Swagger.Host
	scheme := ""
	for _, v := range rpcService.Swagger.Schemes {
		scheme += v + ","
	}
	proxy := rpcService.Proxy
	logPath := rpcService.LogPath

	svc := server.NewService(engine)
	if err := svc.Start(addr, host, scheme, proxy, logPath, &rpcService.API); err != nil {
		return svc, err
	}
	common.Log.Info("rpc started")
	return svc, nil
}

func initRpc(conf *config.YamlConf) error {
	return bitcoin_rpc.InitBitconRpc(
		conf.ShareRPC.Bitcoin.Host,
		conf.ShareRPC.Bitcoin.Port,
		conf.ShareRPC.Bitcoin.User,
		conf.ShareRPC.Bitcoin.Password,
		conf.ShareRPC.Bitcoin.UseSSL,
	)
}
