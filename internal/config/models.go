package config

// GeneratorConfig represents the configuration for the reply generator
type GeneratorConfig struct {
	Provider string
}

// ServerConfig represents the configuration for the HTTP surface
type ServerConfig struct {
	ListenAddress string
	CORSOrigins   []string
}

// GatewayConfig represents the configuration for the WhatsApp gateway client
type GatewayConfig struct {
	BaseURL string
	APIKey  string
	Session string
	Timeout string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// AssistantConfig represents the conversation-level settings
type AssistantConfig struct {
	ReplyEnabled  bool
	HistoryWindow int
	Persona       string
}

// ClassifierConfig represents the classifier tuning parameters
type ClassifierConfig struct {
	LongMessageWords        int
	VeryShortWords          int
	VeryLongWords           int
	SpamURLCount            int
	SpamUppercaseRatio      float64
	SpamUppercaseMinLetters int
	ShoutUppercaseRatio     float64
	ShoutMinLetters         int
	BusinessHoursStart      int
	BusinessHoursEnd        int
	ExtraKeywords           map[string][]string
}

// StorageConfig represents the message store configuration
type StorageConfig struct {
	Type             string
	SQLitePath       string
	MySQLDSN         string
	Retention        string
	CleanupFrequency string
}

// GetGenerator returns the reply generator configuration
func (c *Config) GetGenerator() GeneratorConfig {
	return GeneratorConfig{
		Provider: c.GetString("generator.provider"),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		CORSOrigins:   c.GetStringSlice("server.cors_origins"),
	}
}

// GetGateway returns the WhatsApp gateway configuration
func (c *Config) GetGateway() GatewayConfig {
	return GatewayConfig{
		BaseURL: c.GetString("gateway.base_url"),
		APIKey:  c.GetString("gateway.api_key"),
		Session: c.GetString("gateway.session"),
		Timeout: c.GetString("gateway.timeout"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetAssistant returns the conversation-level settings
func (c *Config) GetAssistant() AssistantConfig {
	return AssistantConfig{
		ReplyEnabled:  c.GetBool("assistant.reply_enabled"),
		HistoryWindow: c.GetInt("assistant.history_window"),
		Persona:       c.GetString("assistant.persona"),
	}
}

// GetClassifier returns the classifier tuning parameters
func (c *Config) GetClassifier() ClassifierConfig {
	extra := map[string][]string{}
	for name := range c.v.GetStringMap("classifier.extra_keywords") {
		extra[name] = c.GetStringSlice("classifier.extra_keywords." + name)
	}
	return ClassifierConfig{
		LongMessageWords:        c.GetInt("classifier.long_message_words"),
		VeryShortWords:          c.GetInt("classifier.very_short_words"),
		VeryLongWords:           c.GetInt("classifier.very_long_words"),
		SpamURLCount:            c.GetInt("classifier.spam_url_count"),
		SpamUppercaseRatio:      c.GetFloat64("classifier.spam_uppercase_ratio"),
		SpamUppercaseMinLetters: c.GetInt("classifier.spam_uppercase_min_letters"),
		ShoutUppercaseRatio:     c.GetFloat64("classifier.shout_uppercase_ratio"),
		ShoutMinLetters:         c.GetInt("classifier.shout_min_letters"),
		BusinessHoursStart:      c.GetInt("classifier.business_hours_start"),
		BusinessHoursEnd:        c.GetInt("classifier.business_hours_end"),
		ExtraKeywords:           extra,
	}
}

// GetStorage returns the message store configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:             c.GetString("storage.type"),
		SQLitePath:       c.GetString("storage.sqlite_path"),
		MySQLDSN:         c.GetString("storage.mysql_dsn"),
		Retention:        c.GetString("storage.retention"),
		CleanupFrequency: c.GetString("storage.cleanup_frequency"),
	}
}
