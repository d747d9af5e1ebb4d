package deepgram

import "github.com/lingora/lingora-core/core/synthesis"

const defaultModel = "aura-2-thalia-en"

// auraVoices lists the Aura speak models exposed as voices. Aura 2 models
// are the premium tier.
func auraVoices() []synthesis.Voice {
	return []synthesis.Voice{
		{Name: "aura-2-thalia-en", Locale: "en-US", Premium: true, Default: true},
		{Name: "aura-2-andromeda-en", Locale: "en-US", Premium: true},
		{Name: "aura-2-apollo-en", Locale: "en-US", Premium: true},
		{Name: "aura-asteria-en", Locale: "en-US"},
		{Name: "aura-orion-en", Locale: "en-US"},
		{Name: "aura-luna-en", Locale: "en-US"},
		{Name: "aura-2-draco-en", Locale: "en-GB", Premium: true},
		{Name: "aura-athena-en", Locale: "en-GB"},
		{Name: "aura-helios-en", Locale: "en-GB"},
		{Name: "aura-angus-en", Locale: "en-IE"},
		{Name: "aura-stella-en", Locale: "en-US"},
		{Name: "aura-2-celeste-es", Locale: "es-ES", Premium: true},
	}
}
