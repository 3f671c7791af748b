package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          string
	RedisAddr     string
	RedisPassword string
	OpenAIKey     string
	OpenAIBaseURL string
	ChatModel     string
	ImageModel    string
	EmbedModel    string
	TotalRounds   int
	MinPlayers    int
	MaxPlayers    int
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	c.RedisPassword = os.Getenv("REDIS_PASSWORD")
	c.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	c.ChatModel = getenv("CHAT_MODEL", "gpt-3.5-turbo")
	c.ImageModel = getenv("IMAGE_MODEL", "dall-e-3")
	c.EmbedModel = getenv("EMBEDDING_MODEL", "text-embedding-ada-002")
	c.TotalRounds = intenv("TOTAL_ROUNDS", 3)
	c.MinPlayers = intenv("MIN_PLAYERS", 2)
	c.MaxPlayers = intenv("MAX_PLAYERS", 2)
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func intenv(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
