// Package models lists the OpenAI models available to an API key, grouped
// into speech models (for audio.openai_model) and chat models (used to
// fill in pronunciations and translations on import).
package models
