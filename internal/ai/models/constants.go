package models

const (
	// === OpenAI Models ===
	ModelOpenAIGpt4oMini = "gpt-4o-mini"
	ModelOpenAIGpt4o     = "gpt-4o"

	// === Gemini Models ===
	ModelGeminiFlash     = "gemini-2.0-flash"
	ModelGeminiFlashLite = "gemini-2.0-flash-lite"

	// === Perplexity Models ===
	ModelPerplexitySonar    = "sonar"
	ModelPerplexitySonarPro = "sonar-pro"
)

const (
	// === Task-Specific Default Models ===

	// Scans use the consumer-tier models users actually see answers from
	TaskScanOpenAIModel     = ModelOpenAIGpt4oMini
	TaskScanGeminiModel     = ModelGeminiFlash
	TaskScanPerplexityModel = ModelPerplexitySonar
)
