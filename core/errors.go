package core

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorCodeNoProvider        = "DATASTORE_NO_PROVIDER"
	ErrorCodeAmbiguousProvider = "DATASTORE_AMBIGUOUS_PROVIDER"
	ErrorCodeConfiguration     = "DATASTORE_CONFIGURATION"
	ErrorCodeMissingDependency = "DATASTORE_MISSING_DEPENDENCY"
	ErrorCodeBadInput          = "DATASTORE_BAD_INPUT"
)

// NewNoProviderConfiguredError reports an options value that carries zero
// provider extensions at resolution time.
func NewNoProviderConfiguredError() *goerrors.Error {
	return goerrors.New(
		"core: no data-store provider is configured; configure exactly one provider extension",
		goerrors.CategoryOperation,
	).WithTextCode(ErrorCodeNoProvider)
}

// NewAmbiguousProviderError reports an options value that carries more than
// one provider extension. Failing fast here keeps a configuration mistake
// from being hidden by silently picking one provider over another.
func NewAmbiguousProviderError(kinds []string) *goerrors.Error {
	return goerrors.New(
		"core: multiple data-store providers are configured: "+strings.Join(kinds, ", "),
		goerrors.CategoryConflict,
	).WithTextCode(ErrorCodeAmbiguousProvider).
		WithMetadata(map[string]any{"kinds": append([]string(nil), kinds...)})
}

// NewConfigurationError reports a provider service factory missing a required
// setting, or a setting that cannot be decoded.
func NewConfigurationError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(ErrorCodeConfiguration)
}

// NewMissingDependencyError reports a required collaborator that was not
// supplied. Checked eagerly at construction, not deferred to resolution.
func NewMissingDependencyError(dependency string) *goerrors.Error {
	return goerrors.New(
		"core: required dependency is missing: "+dependency,
		goerrors.CategoryBadInput,
	).WithTextCode(ErrorCodeMissingDependency).
		WithMetadata(map[string]any{"dependency": dependency})
}

func IsNoProviderConfigured(err error) bool {
	return hasTextCode(err, ErrorCodeNoProvider)
}

func IsAmbiguousProvider(err error) bool {
	return hasTextCode(err, ErrorCodeAmbiguousProvider)
}

func IsConfigurationError(err error) bool {
	return hasTextCode(err, ErrorCodeConfiguration)
}

func IsMissingDependency(err error) bool {
	return hasTextCode(err, ErrorCodeMissingDependency)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == code
}

// wrapConfigurationError promotes provider errors that are not already rich
// errors into the configuration category so callers see one taxonomy.
func wrapConfigurationError(err error, message string) error {
	if err == nil {
		return nil
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(ErrorCodeConfiguration)
}
