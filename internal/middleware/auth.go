package middleware

import (
	"braingain_backend/internal/config"
	"braingain_backend/internal/util"
	"braingain_backend/pkg/logger"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt 计算成本，测试中调低
var hashCost = bcrypt.DefaultCost

// AdminAuth 管理后台鉴权：共享密钥（请求头或查询参数）或登录后签发的 JWT
type AdminAuth struct {
	mu         sync.RWMutex
	secretHash []byte
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAdminAuth(cfg *config.Config) (*AdminAuth, error) {
	a := &AdminAuth{}
	if err := a.Update(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// Update 配置热更新时轮换密钥
func (a *AdminAuth) Update(cfg *config.Config) error {
	var hash []byte
	switch {
	case cfg.Admin.SecretHash != "":
		hash = []byte(cfg.Admin.SecretHash)
		if _, err := bcrypt.Cost(hash); err != nil {
			return err
		}
	case cfg.Admin.Secret != "":
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.Admin.Secret), hashCost)
		if err != nil {
			return err
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.secretHash = hash
	a.jwtSecret = cfg.JWT.Secret
	a.tokenTTL = cfg.JWT.ExpireTime
	return nil
}

func (a *AdminAuth) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.secretHash) > 0
}

func (a *AdminAuth) VerifySecret(secret string) bool {
	a.mu.RLock()
	hash := a.secretHash
	a.mu.RUnlock()

	if len(hash) == 0 || secret == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(secret)) == nil
}

// IssueToken 校验共享密钥后签发管理员令牌
func (a *AdminAuth) IssueToken(secret string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, util.ErrAdminDisabled
	}
	if !a.VerifySecret(secret) {
		return "", time.Time{}, util.ErrInvalidAdminSecret
	}

	a.mu.RLock()
	jwtSecret, ttl := a.jwtSecret, a.tokenTTL
	a.mu.RUnlock()
	return util.GenerateAdminToken(jwtSecret, ttl)
}

func (a *AdminAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			util.Error(c, http.StatusForbidden, util.ErrAdminDisabled.Error())
			c.Abort()
			return
		}

		secret := c.GetHeader(util.AdminSecretHeader)
		if secret == "" {
			secret = c.Query(util.AdminSecretQuery)
		}
		if secret != "" {
			if !a.VerifySecret(secret) {
				logger.Log.Warn("admin secret rejected", zap.String("ip", c.ClientIP()))
				util.Error(c, http.StatusUnauthorized, util.ErrInvalidAdminSecret.Error())
				c.Abort()
				return
			}
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		a.mu.RLock()
		jwtSecret := a.jwtSecret
		a.mu.RUnlock()

		claims, err := util.ParseJWT(tokenString, jwtSecret)
		if err != nil || claims.Role != util.RoleAdmin {
			logger.Log.Debug("admin token rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
