package constants

// Provider selectors
const (
	ProviderDeepSeek    = "deepseek"
	ProviderSiliconFlow = "siliconflow"
)

// Models with provider-specific handling
const (
	// ModelDeepSeekReasoner ignores sampling parameters on DeepSeek
	ModelDeepSeekReasoner = "deepseek-reasoner"
	// ModelSiliconFlowReasoner stands in for deepseek-reasoner on SiliconFlow
	ModelSiliconFlowReasoner = "Qwen/QwQ-32B"
)

// Format modes
const (
	FormatModeAutoJSONFirst = "auto_json_first"
	FormatModeLabelsOnly    = "labels_only"
)

// Label languages (only affect the instructed fallback wording)
const (
	LanguageCodeEnglish = "en"
	LanguageCodeChinese = "zh"
)

// Output markers
const (
	// ErrorMarker prefixes both outputs when the call itself failed
	ErrorMarker = "Error: "
	// ParseErrorMarker prefixes a diagnostic placeholder for an unrecoverable field
	ParseErrorMarker = "ParseError: missing "
	// RawPreviewLimit is the maximum number of characters of raw text embedded in a placeholder
	RawPreviewLimit = 500
)

// Prompt list limits
const (
	MaxPromptSlots   = 10
	NoValidPrompts   = "No valid prompts"
	DefaultListCount = 5
)

// MaxBatchSize bounds the number of requests accepted by one batch call
const MaxBatchSize = 32
