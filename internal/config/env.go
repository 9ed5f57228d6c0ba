package config

import "os"

// Getenv returns the value of key, falling back to def when unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// OpenAIKey returns the OpenAI-compatible API key from OPENAI_API_KEY.
// Empty when unset; local inference servers generally accept any value.
func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// GeminiKey returns the Gemini API key from GEMINI_API_KEY, falling back
// to GOOGLE_API_KEY.
func GeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}
