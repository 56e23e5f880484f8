package v1

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Framework is the test framework that produced a test results file.
type Framework string

const (
	FrameworkPytest  Framework = "Pytest"
	FrameworkVitest  Framework = "Vitest"
	FrameworkJest    Framework = "Jest"
	FrameworkPHPUnit Framework = "PHPUnit"
)

// frameworkTokens maps name fragments to frameworks. Order matters: the first match wins.
var frameworkTokens = []struct {
	token     string
	framework Framework
}{
	{"pytest", FrameworkPytest},
	{"vitest", FrameworkVitest},
	{"jest", FrameworkJest},
	{"phpunit", FrameworkPHPUnit},
}

// extensionTokens maps source-file extensions to frameworks.
var extensionTokens = []struct {
	token     string
	framework Framework
}{
	{".py", FrameworkPytest},
	{".php", FrameworkPHPUnit},
}

// containsBeforeWordBoundary reports whether `substring` occurs in `s` (case-insensitively) followed by a
// word boundary, i.e. the next character is non-alphanumeric or the string ends. This avoids matching
// "jest" inside "jester".
func containsBeforeWordBoundary(s string, substring string) bool {
	lowered := strings.ToLower(s)
	index := strings.Index(lowered, substring)
	if index < 0 {
		return false
	}

	suffix := lowered[index+len(substring):]
	if suffix == "" {
		return true
	}

	next, _ := utf8.DecodeRuneInString(suffix)
	return !unicode.IsLetter(next) && !unicode.IsDigit(next)
}

// CheckTestsuitesName tries to detect the originating framework based on the name of a `<testsuites>`
// element. It returns nil when no framework matches.
func CheckTestsuitesName(testsuitesName string) *Framework {
	for _, candidate := range frameworkTokens {
		if containsBeforeWordBoundary(testsuitesName, candidate.token) {
			framework := candidate.framework
			return &framework
		}
	}

	return nil
}

// DetectFramework tries to detect the originating framework based on the fields of a single test run.
// The testsuite name is checked against the known framework names first; afterwards, source-file
// extensions are checked against the classname, test name, failure message & filename.
func (t Testrun) DetectFramework() *Framework {
	for _, candidate := range frameworkTokens {
		if containsBeforeWordBoundary(t.Testsuite, candidate.token) {
			framework := candidate.framework
			return &framework
		}
	}

	for _, candidate := range extensionTokens {
		framework := candidate.framework

		if containsBeforeWordBoundary(t.Classname, candidate.token) ||
			containsBeforeWordBoundary(t.Name, candidate.token) {
			return &framework
		}

		if t.FailureMessage != nil && containsBeforeWordBoundary(*t.FailureMessage, candidate.token) {
			return &framework
		}

		if t.Filename != nil && containsBeforeWordBoundary(*t.Filename, candidate.token) {
			return &framework
		}
	}

	return nil
}
