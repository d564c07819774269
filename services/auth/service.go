package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gyansultanat-platform/pkg/config"
	"gyansultanat-platform/pkg/errutil"
	"gyansultanat-platform/pkg/rediskey"
	"gyansultanat-platform/pkg/repository"
	"gyansultanat-platform/pkg/util"
)

const userContextKey = "auth.session"

type Service struct {
	db    *gorm.DB
	rdb   *redis.Client
	cfg   *config.Config
	users repository.Repository[User]

	httpClient *http.Client
}

type ServiceParams struct {
	fx.In

	DB     *gorm.DB
	Redis  *redis.Client
	Config *config.Config
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:    p.DB,
		rdb:   p.Redis,
		cfg:   p.Config,
		users: repository.ProvideStore[User](p.DB),

		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type upstreamSession struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExchangeSession validates an upstream session id against the identity
// provider, provisions the user on first login and mints a bearer token
// with a 7 day TTL.
func (s *Service) ExchangeSession(ctx context.Context, sessionID string) (string, *User, error) {
	if sessionID == "" {
		return "", nil, errutil.BadRequest("session id is required", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Session.ExchangeURL, nil)
	if err != nil {
		return "", nil, errutil.Internal("failed to build exchange request", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", nil, errutil.BadGateway("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, errutil.Unauthorized("invalid session id", nil)
	}

	var upstream upstreamSession
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return "", nil, errutil.BadGateway("malformed identity response", err)
	}
	if upstream.Email == "" {
		return "", nil, errutil.Unauthorized("identity response missing email", nil)
	}

	user, err := s.findOrCreateUser(ctx, upstream)
	if err != nil {
		return "", nil, err
	}

	token := util.GenerateSessionToken()
	ttl := s.sessionTTL()
	session := Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		ExpiresAt: time.Now().Add(ttl),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return "", nil, err
	}

	if err := s.rdb.Set(ctx, rediskey.BuildSessionKey(token), payload, ttl).Err(); err != nil {
		zap.L().Error("failed to store session", zap.Error(err))
		return "", nil, errutil.Internal("failed to store session", err)
	}

	return token, user, nil
}

// Resolve looks up a bearer token in the session store.
func (s *Service) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, errutil.Unauthorized("missing session token", nil)
	}

	raw, err := s.rdb.Get(ctx, rediskey.BuildSessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, errutil.Unauthorized("session expired or unknown", nil)
	}
	if err != nil {
		return nil, errutil.Internal("failed to read session", err)
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errutil.Internal("corrupt session payload", err)
	}

	return &session, nil
}

// Revoke deletes the session behind the token. Unknown tokens are a no-op.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, rediskey.BuildSessionKey(token)).Err()
}

func (s *Service) findOrCreateUser(ctx context.Context, upstream upstreamSession) (*User, error) {
	user, err := s.users.FindOne(ctx, &User{Email: upstream.Email})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &User{
		ID:      util.GenerateUserID(),
		Email:   upstream.Email,
		Name:    upstream.Name,
		Picture: upstream.Picture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// concurrent first login
		if existing, ferr := s.users.FindOne(ctx, &User{Email: upstream.Email}); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}

	return user, nil
}

func (s *Service) sessionTTL() time.Duration {
	if s.cfg.Session.TTL > 0 {
		return s.cfg.Session.TTL
	}
	return 7 * 24 * time.Hour
}

func (s *Service) cookieName() string {
	if s.cfg.Session.CookieName != "" {
		return s.cfg.Session.CookieName
	}
	return "session_token"
}

// TokenFromRequest pulls the bearer token from the session cookie or
// the Authorization header, cookie first.
func (s *Service) TokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(s.cookieName()); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}

	return ""
}

// Middleware authenticates the request and stashes the session in the
// gin context for CurrentSession.
func (s *Service) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.Resolve(c.Request.Context(), s.TokenFromRequest(c))
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(userContextKey, session)
		c.Next()
	}
}

// CurrentSession returns the authenticated session set by Middleware.
func CurrentSession(c *gin.Context) *Session {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*Session)
	return session
}
