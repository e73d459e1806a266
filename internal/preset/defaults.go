package preset

// DefaultPresets returns the built-in instrument table, in display order.
func DefaultPresets() []Preset {
	return []Preset{
		{ID: "piano", Name: "Piano", Waveform: Sine, BaseFreq: 261.63, // C4
			Envelope: Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0.3, Release: 0.4}},
		{ID: "bass", Name: "Baixo", Waveform: Square, BaseFreq: 82.41, // E2
			Envelope: Envelope{Attack: 0.03, Decay: 0.2, Sustain: 0.2, Release: 0.5}},
		{ID: "cello", Name: "Cello", Waveform: Triangle, BaseFreq: 65.41, // C2
			Envelope: Envelope{Attack: 0.05, Decay: 0.3, Sustain: 0.3, Release: 0.6}},
		{ID: "flute", Name: "Flauta", Waveform: Sine, BaseFreq: 523.25, // C5
			Envelope: Envelope{Attack: 0.05, Decay: 0.1, Sustain: 0.4, Release: 0.3}},
		{ID: "xylophone", Name: "Xilofone", Waveform: Sine, BaseFreq: 392.00, // G4
			Envelope: Envelope{Attack: 0.01, Decay: 0.1, Sustain: 0, Release: 0.3}},
		{ID: "marimba", Name: "Marimba", Waveform: Sine, BaseFreq: 440.00, // A4
			Envelope: Envelope{Attack: 0.01, Decay: 0.2, Sustain: 0, Release: 0.4}},
		{ID: "notification", Name: "Notificação", Waveform: Sine, BaseFreq: 1046.50, // C6
			Envelope: Envelope{Attack: 0.01, Decay: 0.05, Sustain: 0.1, Release: 0.2}},
	}
}

// Default builds a catalog from DefaultPresets.
func Default() *Catalog {
	c, err := NewCatalog(DefaultPresets()...)
	if err != nil {
		panic("preset: invalid built-in table: " + err.Error())
	}
	return c
}
