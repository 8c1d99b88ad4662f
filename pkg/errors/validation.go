package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection when
// the name is interpolated into registry URLs or cache keys.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
		"/",    // NuGet IDs never contain slashes
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// nugetIDRegex matches valid NuGet package identifiers.
var nugetIDRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidateNuGetPackageID validates a NuGet package identifier.
func ValidateNuGetPackageID(id string) error {
	if err := ValidatePackageName(id); err != nil {
		return err
	}

	if !nugetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid NuGet package id: %q", id)
	}

	return nil
}

// versionRegex matches NuGet (SemVer 2.0 compatible, four-part tolerant) versions.
var versionRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,3}(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// ValidateVersion validates a concrete package version. Empty means "latest"
// and is accepted.
func ValidateVersion(v string) error {
	if v == "" {
		return nil
	}
	if !versionRegex.MatchString(v) {
		return New(ErrCodeInvalidInput, "invalid package version: %q", v)
	}
	return nil
}

// frameworkRegex matches target framework monikers such as net8.0,
// netstandard2.0, net472 or net6.0-windows.
var frameworkRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*(-[A-Za-z0-9.]+)?$`)

// ValidateFramework validates a target framework moniker. Empty means "any".
func ValidateFramework(fw string) error {
	if fw == "" {
		return nil
	}
	if !frameworkRegex.MatchString(fw) {
		return New(ErrCodeInvalidInput, "invalid target framework: %q", fw)
	}
	return nil
}
