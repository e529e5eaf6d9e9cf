// Package phonetic looks up IPA transcriptions of words with OpenAI chat
// models. Imports use it to fill in missing pronunciations.
package phonetic
