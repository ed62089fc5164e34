package errors

import "errors"

var (
	// Platform errors 🖥️
	ErrUnsupportedPlatform = errors.New("❌ unsupported platform")

	// Package errors 📦
	ErrInstallFailed = errors.New("❌ package installation failed")

	// SDK errors 📱
	ErrResolutionFailed = errors.New("❌ command-line tools URL not found")
	ErrFetchFailed      = errors.New("❌ SDK download or extraction failed")

	// Environment errors 🐚
	ErrJavaNotFound = errors.New("❌ no Java installation found")
	ErrProfileWrite = errors.New("❌ shell profile update failed")
)
