package config

// HTTPClientConfig defines transport-level settings for page fetches
type HTTPClientConfig struct {
	UserAgent          string            `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	CustomHeaders      map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	Proxy              string            `json:"proxy,omitempty" yaml:"proxy,omitempty" validate:"omitempty,url"`
	InsecureSkipVerify bool              `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
	FollowRedirects    bool              `json:"follow_redirects" yaml:"follow_redirects"`
	MaxRedirects       int               `json:"max_redirects,omitempty" yaml:"max_redirects,omitempty" validate:"omitempty,min=0,max=50"`
	MaxContentSize     int               `json:"max_content_size,omitempty" yaml:"max_content_size,omitempty" validate:"omitempty,min=1"`
	EnableHTTP2        bool              `json:"enable_http2" yaml:"enable_http2"`
}

// NewDefaultHTTPClientConfig creates default HTTP client configuration
func NewDefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		UserAgent:          DefaultHTTPUserAgent,
		CustomHeaders:      map[string]string{},
		InsecureSkipVerify: false,
		FollowRedirects:    DefaultHTTPFollowRedirects,
		MaxRedirects:       DefaultHTTPMaxRedirects,
		MaxContentSize:     DefaultHTTPMaxContentSize,
		EnableHTTP2:        DefaultHTTPEnableHTTP2,
	}
}
