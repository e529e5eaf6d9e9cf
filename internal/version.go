package internal

// Version is the vocabdrill release.
const Version = "0.4.0"
