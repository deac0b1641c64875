package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
	pkgconfig "github.com/weiawesome/wes-io-live/relay-service/pkg/config"
	pkglog "github.com/weiawesome/wes-io-live/relay-service/pkg/log"
	"github.com/weiawesome/wes-io-live/relay-service/pkg/pubsub"
)

// DefaultSTUNURL is served when no STUN server is configured.
const DefaultSTUNURL = "stun:stun.l.google.com:19302"

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	ViewerID  ViewerIDConfig `mapstructure:"viewer_id"`
	Events    pubsub.Config
	WebRTC    WebRTCConfig
	Log       pkglog.Config
}

type ServerConfig struct {
	Host      string
	Port      int
	StaticDir string `mapstructure:"static_dir"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
}

// DefaultWebSocketConfig returns the transport defaults.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 65536,
		SendBuffer:     256,
	}
}

type ViewerIDConfig struct {
	Size     int
	Alphabet string
}

type WebRTCConfig struct {
	ICEServers []ICEServerConfig `mapstructure:"ice_servers"`
}

type ICEServerConfig struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

var defaults = map[string]interface{}{
	"server.host":                "0.0.0.0",
	"server.port":                3000,
	"server.static_dir":          "",
	"websocket.ping_interval":    "30s",
	"websocket.pong_wait":        "60s",
	"websocket.write_wait":       "10s",
	"websocket.max_message_size": 65536,
	"websocket.send_buffer":      256,
	"viewer_id.size":             11,
	"viewer_id.alphabet":         "0123456789abcdefghijklmnopqrstuvwxyz",
	"events.driver":              pubsub.DriverNone,
	"events.kafka.brokers":       "localhost:9092",
	"events.kafka.topic":         "relay-events",
	"events.kafka.partitions":    4,
	"events.redis.address":       "localhost:6379",
	"events.redis.password":      "",
	"events.redis.db":            0,
	"events.redis.pool_size":     10,
	"events.redis.read_timeout":  "3s",
	"events.redis.write_timeout": "3s",
	"log.level":                  "info",
	"log.pretty":                 false,
	"log.service_name":           "relay-service",
}

var envBindings = map[string]string{
	"server.port":           "PORT",
	"server.static_dir":     "STATIC_DIR",
	"viewer_id.size":        "VIEWER_ID_SIZE",
	"events.driver":         "EVENTS_DRIVER",
	"events.kafka.brokers":  "KAFKA_BROKERS",
	"events.kafka.topic":    "KAFKA_EVENTS_TOPIC",
	"events.redis.address":  "REDIS_ADDRESS",
	"events.redis.password": "REDIS_PASSWORD",
	"log.level":             "LOG_LEVEL",
}

// Load reads config/config.yaml (if any) and the environment.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(configPath string) (*Config, error) {
	v, err := pkgconfig.Load(configPath, "config",
		pkgconfig.WithDefaults(defaults),
		pkgconfig.WithEnv(envBindings),
	)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Parse durations
	def := DefaultWebSocketConfig()
	cfg.WebSocket.PingInterval = pkgconfig.Duration(v, "websocket.ping_interval", def.PingInterval)
	cfg.WebSocket.PongWait = pkgconfig.Duration(v, "websocket.pong_wait", def.PongWait)
	cfg.WebSocket.WriteWait = pkgconfig.Duration(v, "websocket.write_wait", def.WriteWait)

	if cfg.WebSocket.PingInterval >= cfg.WebSocket.PongWait {
		return nil, fmt.Errorf("websocket.ping_interval (%s) must be shorter than websocket.pong_wait (%s)",
			cfg.WebSocket.PingInterval, cfg.WebSocket.PongWait)
	}

	return &cfg, nil
}

// GetICEServers returns the client ICE configuration. A public STUN server
// is prepended when none of the configured servers is STUN.
func (c *WebRTCConfig) GetICEServers() []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(c.ICEServers)+1)

	hasSTUN := false
	for _, s := range c.ICEServers {
		urls := make([]string, 0, len(s.URLs))
		for _, url := range s.URLs {
			url = strings.TrimSpace(url)
			if url == "" {
				continue
			}
			if strings.HasPrefix(strings.ToLower(url), "stun") {
				hasSTUN = true
			}
			urls = append(urls, url)
		}
		if len(urls) == 0 {
			continue
		}

		server := webrtc.ICEServer{URLs: urls, Username: s.Username}
		if s.Credential != "" {
			server.Credential = s.Credential
		}
		servers = append(servers, server)
	}

	if !hasSTUN {
		servers = append([]webrtc.ICEServer{{URLs: []string{DefaultSTUNURL}}}, servers...)
	}
	return servers
}
