package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	Verbose     bool
	JSON        bool
	HistoryPath string
	OutputDir   string
	BatchFile   string
	Copy        bool

	// Translation flags
	Tone           string
	Direction      string
	Models         []string
	Temperature    float64
	CircuitBreaker bool

	// Speech flags
	Speak       bool
	NoPlay      bool
	NoSave      bool
	SpeechModel string
	SpeechVoice string

	// Export flags
	AnkiOutput string
	AudioDir   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Direction:   "to-pidgin",
		Temperature: 0.7,
		SpeechModel: "gemini-2.5-flash-preview-tts",
		SpeechVoice: "Kore",
		AnkiOutput:  "pidgix_anki.csv",
	}
}
