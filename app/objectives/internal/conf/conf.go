package conf

type Bootstrap struct {
	Server    *Server    `json:"server"`
	Generator *Generator `json:"generator"`
	Log       *Log       `json:"log"`
}

type Server struct {
	Http *HTTP `json:"http"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Generator struct {
	Provider     string   `json:"provider"`
	BaseUrl      string   `json:"base_url"`
	ApiKey       string   `json:"api_key"`
	ApiKeyEnv    string   `json:"api_key_env"`
	Model        string   `json:"model"`
	Temperature  *float64 `json:"temperature"`
	MaxTokens    int32    `json:"max_tokens"`
	Timeout      string   `json:"timeout"`
	StrictSchema bool     `json:"strict_schema"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}
