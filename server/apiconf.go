package server

import (
	"net"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	"github.com/sat20-labs/mempoolsync/common"
)

// RateLimit wraps a tollbooth limiter with the daily request counter
// the per-key quota (APIKey.Quota.PerDay) needs; tollbooth itself
// only knows about a rolling token bucket, not a calendar day.
type RateLimit struct {
	limit    *limiter.Limiter
	reqCount int
	day      time.Time
}

type API struct {
	APIKeyList      map[string]*APIKey `yaml:"apikey_list"`
	NoLimitApiList  []string           `yaml:"nolimit_api_list"`
	NoLimitHostList []string           `yaml:"nolimit_host_list"`
}

type APIKey struct {
	UserName string `yaml:"user_name"`
	Quota    *Quota `yaml:"rate_limit"`
}

type Quota struct {
	PerSecond int `yaml:"per_second"`
	PerDay    int `yaml:"per_day"`
	Max       int `yaml:"max"`
	Burst     int `yaml:"burst"`
}

// initApiConfFrom decodes cfgData (expected to be a config.API value or
// nil) into s.api and re-reads it every 30s so key/quota changes in the
// config file take effect without a restart.
func (s *Service) initApiConfFrom(cfgData any) error {
	if cfgData == nil {
		return nil
	}
	read := func() error {
		s.apiConfMutex.Lock()
		defer s.apiConfMutex.Unlock()

		raw, err := yaml.Marshal(cfgData)
		if err != nil {
			return err
		}
		s.api = &API{}
		if err := yaml.Unmarshal(raw, s.api); err != nil {
			return err
		}
		s.initApiConf = true
		return nil
	}

	if err := read(); err != nil {
		return err
	}
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := read(); err != nil {
				common.Log.Errorf("server.initApiConfFrom-> reload error: %v", err)
			}
		}
	}()
	return nil
}

// applyApiConf installs the API-key authorization and rate-limit
// middleware. Requests from the host's own local interfaces always
// bypass it, since those are the supervisor and health checks, not
// external callers.
func (s *Service) applyApiConf(r *gin.Engine, basePath string) error {
	localIps := []string{"localhost"}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return err
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && ipNet.IP.To4() != nil {
			localIps = append(localIps, ipNet.IP.String())
		}
	}

	r.Use(func(c *gin.Context) {
		if !s.initApiConf {
			c.Next()
			return
		}
		for _, ip := range localIps {
			if c.RemoteIP() == ip {
				c.Next()
				return
			}
		}

		s.apiConfMutex.Lock()
		api := s.api
		s.apiConfMutex.Unlock()

		for _, apiUrl := range api.NoLimitApiList {
			if basePath+apiUrl == c.Request.URL.Path {
				c.Next()
				return
			}
		}

		clientIp := c.ClientIP()
		for _, host := range api.NoLimitHostList {
			if clientIp == host {
				c.Next()
				return
			}
		}

		authorization := c.GetHeader("Authorization")
		apiKey := api.APIKeyList[authorization]
		if apiKey == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key"})
			c.Abort()
			return
		}
		if apiKey.Quota == nil || apiKey.Quota.PerSecond == 0 || apiKey.Quota.PerDay == 0 {
			c.Next()
			return
		}

		var rl *RateLimit
		if v, ok := s.apiLimitMap.Load(apiKey); ok {
			rl = v.(*RateLimit)
		} else {
			lmt := tollbooth.NewLimiter(float64(apiKey.Quota.PerSecond), &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
			lmt.SetMax(float64(apiKey.Quota.Max))
			lmt.SetBurst(apiKey.Quota.Burst)
			lmt.SetTokenBucketExpirationTTL(time.Minute)
			rl = &RateLimit{limit: lmt}
			s.apiLimitMap.Store(apiKey, rl)
		}

		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		if !rl.day.Equal(today) {
			rl.day = today
			rl.reqCount = 0
		}
		rl.reqCount++
		if rl.reqCount > apiKey.Quota.PerDay {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		if err := tollbooth.LimitByRequest(rl.limit, c.Writer, c.Request); err != nil {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	})

	return nil
}
