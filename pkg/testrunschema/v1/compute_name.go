package v1

import (
	"fmt"
	"html"
	"strings"
)

// ComputeName builds the framework-specific display name for a test case. XML entities in the inputs are
// unescaped, since several reporters double-escape names. The `network` set, when provided, holds the
// file paths known to exist in the repository; it is used to recover a test's source file when the
// results file itself does not carry one.
func ComputeName(classname string, name string, framework Framework, filename *string, network map[string]struct{}) string {
	name = html.UnescapeString(name)
	classname = html.UnescapeString(classname)
	if filename != nil {
		unescaped := html.UnescapeString(*filename)
		filename = &unescaped
	}

	switch framework {
	case FrameworkJest:
		return name
	case FrameworkVitest:
		return fmt.Sprintf("%s > %s", classname, name)
	case FrameworkPHPUnit:
		return fmt.Sprintf("%s::%s", classname, name)
	case FrameworkPytest:
		return computePytestName(classname, name, filename, network)
	}

	return name
}

// computePytestName formats a pytest node ID. Pytest classnames are dotted module paths that repeat the
// source file's path components; those repeated components are dropped in favor of the file path itself.
func computePytestName(classname string, name string, filename *string, network map[string]struct{}) string {
	if filename == nil {
		filename = findFilenameInNetwork(classname, network)
	}

	if filename == nil {
		return fmt.Sprintf("%s::%s", classname, name)
	}

	pathComponents := strings.Count(*filename, "/") + 1

	classnameComponents := strings.Split(classname, ".")
	actualClassname := ""
	if pathComponents < len(classnameComponents) {
		actualClassname = strings.Join(classnameComponents[pathComponents:], "::")
	}

	if actualClassname == "" {
		return fmt.Sprintf("%s::%s", *filename, name)
	}

	return fmt.Sprintf("%s::%s::%s", *filename, actualClassname, name)
}

// findFilenameInNetwork converts a dotted pytest classname into candidate file paths & returns the
// longest candidate that exists in the network. For `tests.test_parsers.TestParsers`, the candidates are
// `tests/test_parsers/TestParsers.py`, `tests/test_parsers.py` and `tests.py`, in that order.
func findFilenameInNetwork(classname string, network map[string]struct{}) *string {
	if len(network) == 0 {
		return nil
	}

	components := strings.Split(classname, ".")
	for i := len(components); i > 0; i-- {
		candidate := strings.Join(components[:i], "/") + ".py"
		if _, ok := network[candidate]; ok {
			return &candidate
		}
	}

	return nil
}
