package configuration

type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Url     string `json:"url"`
	Token   string `json:"token"`
	Org     string `json:"org"`
	Bucket  string `json:"bucket"`
}
