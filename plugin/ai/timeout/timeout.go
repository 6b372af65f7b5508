// Package timeout defines centralized timeout constants for agent operations.
// Package timeout 定义 Agent 外部调用的集中式超时常量。
package timeout

import "time"

// External call timeouts. None of these calls is retried.
// 外部调用超时，均不重试。
const (
	// LLMTimeout is the timeout for a single JSON completion.
	// LLMTimeout 是单次 LLM JSON 补全的超时时间。
	LLMTimeout = 30 * time.Second

	// BackendTimeout is the timeout for calls to the Jarvis backend.
	// BackendTimeout 是调用 Jarvis 后端的超时时间。
	BackendTimeout = 15 * time.Second

	// WeatherTimeout is the timeout for the weather lookup.
	// WeatherTimeout 是天气查询的超时时间。
	WeatherTimeout = 8 * time.Second

	// WeatherCacheTTL is how long a rendered weather summary is reused.
	// WeatherCacheTTL 是天气文案的缓存时间。
	WeatherCacheTTL = 10 * time.Minute

	// ShutdownTimeout bounds graceful HTTP shutdown.
	// ShutdownTimeout 是 HTTP 服务优雅退出的超时时间。
	ShutdownTimeout = 10 * time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	// MaxTruncateLength 是日志中字符串截断的最大长度。
	MaxTruncateLength = 200
)
