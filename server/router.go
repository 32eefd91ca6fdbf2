package server

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sat20-labs/mempoolsync/mempool"
)

const (
	strictTransportSecurity  = "strict-transport-security"
	contentSecurityPolicy    = "content-security-policy"
	vary                     = "vary"
	accessControlAllowOrigin = "access-control-allow-origin"
)

// Service wires the mempool engine to an HTTP surface. It owns its own
// API-key/rate-limit table the way the rest of the sat20-labs API
// surface does (see applyApiConf), but everything routing-related is
// specific to this engine's operations.
type Service struct {
	handle *Handle

	initApiConf  bool
	apiConfMutex sync.Mutex
	api          *API
	apiLimitMap  sync.Map
}

func NewService(engine *mempool.Engine) *Service {
	return &Service{
		handle: NewHandle(NewModel(engine)),
	}
}

func (s *Service) InitRouter(r *gin.Engine, proxy string) {
	r.GET(proxy+"/mempool/snapshot", s.handle.getSnapshot)
	r.GET(proxy+"/mempool/info", s.handle.getInfo)
	r.GET(proxy+"/mempool/rate", s.handle.getRate)
	r.GET(proxy+"/mempool/latest", s.handle.getLatest)
	r.GET(proxy+"/mempool/firstseen", s.handle.getFirstSeen)
	r.GET(proxy+"/mempool/insync", s.handle.getInSync)
}

// Start brings up the gin engine: cors, security headers, the API-key
// rate limiter and request log rotation, then mounts this service's
// routes and begins listening. It does not block; the caller is
// expected to shut the process down via config.SigInt.
func (s *Service) Start(addr, swaggerHost, swaggerSchemes, proxy, logPath string, apiConf any) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	var writers []io.Writer
	if logPath != "" {
		exePath, _ := os.Executable()
		executableName := filepath.Base(exePath) + ".rpc"
		fileHook, err := rotatelogs.New(
			logPath+"/"+executableName+".%Y%m%d%H%M.log",
			rotatelogs.WithLinkName(logPath+"/"+executableName+".log"),
			rotatelogs.WithMaxAge(7*24*time.Hour),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return fmt.Errorf("failed to create RotateFile hook, error %s", err)
		}
		writers = append(writers, fileHook)
	}
	writers = append(writers, os.Stdout)
	gin.DefaultWriter = io.MultiWriter(writers...)

	corsConfig := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	corsConfig.OptionsResponseStatusCode = 200
	r.Use(cors.New(corsConfig))

	if err := s.initApiConfFrom(apiConf); err != nil {
		return err
	}
	if err := s.applyApiConf(r, proxy); err != nil {
		return err
	}

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set(vary, "Origin")
		c.Writer.Header().Add(vary, "Access-Control-Request-Method")
		c.Writer.Header().Add(vary, "Access-Control-Request-Headers")
		c.Writer.Header().Del(contentSecurityPolicy)
		c.Writer.Header().Set(contentSecurityPolicy, "default-src 'self'")
		c.Writer.Header().Set(strictTransportSecurity, "max-age=31536000; includeSubDomains; preload")
		c.Writer.Header().Set(accessControlAllowOrigin, "*")
		c.Next()
	})

	s.InitRouter(r, proxy)

	if !strings.Contains(addr, ":") {
		addr += ":80"
	}
	go r.Run(addr)
	return nil
}
