package config

// Config 配置主体
type Config struct {
	Server                   ServerConfig             `mapstructure:"server"`
	DB                       DBConfig                 `mapstructure:"database"`
	Redis                    RedisConfig              `mapstructure:"redis"`
	Logstash                 LogstashConfig           `mapstructure:"logstash"`
	JWT                      JWTConfig                `mapstructure:"jwt"`
	Mongo                    MongoConfig              `mapstructure:"mongo"`
	MinIO                    MinIOConfig              `mapstructure:"minio"`
	Kafka                    KafkaConfig              `mapstructure:"kafka"`
	KafkaInteractionConsumer KafkaInteractionConsumer `mapstructure:"kafka_interaction_consumer"`
	Feed                     FeedConfig               `mapstructure:"feed"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置，DSN 为空时服务以“存储未配置”模式启动，业务接口返回 503
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	Region           string `mapstructure:"region"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	UsePublicLink    bool   `mapstructure:"use_public_link"`
	PresignExpiry    int    `mapstructure:"presign_expiry"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaInteractionConsumer 订阅 canal 同步的点赞/评论/分享表变更
type KafkaInteractionConsumer struct {
	Enable  bool   `mapstructure:"enable"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

// FeedConfig 推荐流引擎参数，时长字段单位均为秒
type FeedConfig struct {
	CacheTTL        int    `mapstructure:"cache_ttl"`
	TrendingTTL     int    `mapstructure:"trending_ttl"`
	CacheCapacity   int    `mapstructure:"cache_capacity"`
	CandidateLimit  int    `mapstructure:"candidate_limit"`
	RateLimitWindow int    `mapstructure:"rate_limit_window"`
	RateLimitMax    int    `mapstructure:"rate_limit_max"`
	DedupWindow     int    `mapstructure:"dedup_window"`
	IPHashSalt      string `mapstructure:"ip_hash_salt"`
	RandomSeed      uint64 `mapstructure:"random_seed"`
}
