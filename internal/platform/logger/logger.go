package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for the given mode ("production"/"prod" or anything else for development).
// LOG_LEVEL overrides the mode's default level.
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if lvl := strings.TrimSpace(os.Getenv("LOG_LEVEL")); lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: zl.Sugar()}, nil
}

// NewFromCore wraps an existing core; tests use it with zaptest/observer.
func NewFromCore(core zapcore.Core) *Logger {
	return &Logger{SugaredLogger: zap.New(core).Sugar()}
}

func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) { l.SugaredLogger.Debugw(msg, sanitizeKVs(kv)...) }
func (l *Logger) Info(msg string, kv ...interface{}) { l.SugaredLogger.Infow(msg, sanitizeKVs(kv)...) }
func (l *Logger) Warn(msg string, kv ...interface{}) { l.SugaredLogger.Warnw(msg, sanitizeKVs(kv)...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.SugaredLogger.Errorw(msg, sanitizeKVs(kv)...) }

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(kv)...)}
}

// policy decides what happens to a logged value based on its key.
type policy struct {
	enabled bool
	salt    string
}

var (
	policyOnce sync.Once
	active     policy

	secretMarkers = []string{"token", "authorization", "password", "secret", "api_key", "apikey"}

	// Patient submissions and the prompts built from them are only ever logged as digests.
	digestKeys = map[string]struct{}{
		"inputs":     {},
		"prompt":     {},
		"submission": {},
		"body":       {},
	}
)

func currentPolicy() policy {
	policyOnce.Do(func() {
		active.enabled = true
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			active.enabled = false
		}
		active.salt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return active
}

func sanitizeKVs(kv []interface{}) []interface{} {
	p := currentPolicy()
	if len(kv) == 0 || !p.enabled {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := toString(kv[i])
		out = append(out, key, p.apply(normKey(key), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func (p policy) apply(key string, val interface{}) interface{} {
	if key == "" {
		return val
	}
	for _, m := range secretMarkers {
		if strings.Contains(key, m) {
			return "[REDACTED]"
		}
	}
	if _, ok := digestKeys[key]; ok {
		return p.digest(val)
	}
	if m, ok := val.(map[string]interface{}); ok {
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = p.apply(normKey(k), v)
		}
		return out
	}
	return val
}

func (p policy) digest(val interface{}) string {
	raw := toString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	_, _ = h.Write([]byte(p.salt))
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func normKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
