package platform

// Package platform contains OS integration and URL helpers:
// filesystem helpers, folder reveal, URL checks and the native YouTube playlist lister.
