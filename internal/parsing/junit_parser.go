package parsing

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rwx-research/stevedore-cli/internal/errors"
	"github.com/rwx-research/stevedore-cli/internal/fs"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// JUnitParser parses JUnit XML test results. It is a streaming token parser rather than a full
// deserialization, since report files regularly reach tens of megabytes & we need byte offsets for
// warning positions.
//
// The parser is intentionally lenient: anomalies on a single test case (over-long attributes, malformed
// durations) skip or default the affected field & are surfaced as warnings, while structural problems
// (malformed XML, a test case without a name) fail the parse as a whole.
type JUnitParser struct {
	// Network, when set, holds the file paths known to exist in the repository. It is used to recover
	// source files for computed test names.
	Network map[string]struct{}
}

type junitTestcaseAttrs struct {
	name      string
	time      *string
	classname string
	file      *string
}

type errJUnitAttrTooLong struct {
	field  string
	length int
}

func (e errJUnitAttrTooLong) Error() string {
	return fmt.Sprintf("Limit of string is %d chars, for %s, we got %d", v1.MaxFieldLength, e.field, e.length)
}

// Parse reads the file & returns its normalized form. See the JUnitParser type documentation for the
// error & warning semantics.
func (p JUnitParser) Parse(file fs.ReadOnlyFile) (*v1.ParsingInfo, error) {
	input, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewSystemError("Unable to read %q: %s", file.Name(), err)
	}

	decoder := xml.NewDecoder(bytes.NewReader(input))

	testruns := make([]v1.Testrun, 0)
	warnings := make([]Warning, 0)

	var framework *v1.Framework
	var savedTestrun *v1.Testrun
	savedSkipped := false

	inFailure := false
	inError := false
	sawJUnitElement := false

	// Testsuite elements can be nested. Every `<testsuite>` pushes its name & time attributes onto these
	// stacks; a testcase belongs to the innermost testsuite that actually has a name, and falls back to
	// the innermost testsuite time when it has no duration of its own.
	var testsuiteNames []*string
	var testsuiteTimes []*string

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, col := positionInfo(input, decoder.InputOffset())
			return nil, errors.NewInputError("Error parsing JUnit XML in %s at %d:%d: %s", file.Name(), line, col, err)
		}

		switch element := token.(type) {
		case xml.StartElement:
			switch element.Name.Local {
			case "testcase":
				sawJUnitElement = true

				attrs, err := parseJUnitTestcaseAttrs(element)
				if err != nil {
					var tooLong errJUnitAttrTooLong
					if !errors.As(err, &tooLong) {
						return nil, errors.NewInputError("Error parsing testcase attributes: %s", err)
					}

					warnings = append(warnings, Warning{
						Message:  fmt.Sprintf("Warning while parsing testcase attributes: %s", err),
						Location: decoder.InputOffset(),
					})
					savedTestrun = nil
					savedSkipped = true
					continue
				}

				testrun := p.populateTestrun(attrs, testsuiteNames, testsuiteTimes, &framework, &warnings, decoder.InputOffset())
				savedTestrun = &testrun
				savedSkipped = false
			case "skipped":
				if savedTestrun == nil && !savedSkipped {
					return nil, errors.NewInputError("Met <skipped> element outside of a testcase")
				}
				if savedTestrun != nil {
					savedTestrun.Outcome = v1.OutcomeSkip
				}
			case "failure", "error":
				if savedTestrun == nil && !savedSkipped {
					return nil, errors.NewInputError("Met <%s> element outside of a testcase", element.Name.Local)
				}
				if savedTestrun != nil {
					if element.Name.Local == "failure" {
						savedTestrun.Outcome = v1.OutcomeFailure
					} else {
						savedTestrun.Outcome = v1.OutcomeError
					}
					savedTestrun.FailureMessage = attrValue(element, "message")
				}
				if element.Name.Local == "failure" {
					inFailure = true
				} else {
					inError = true
				}
			case "property":
				if savedTestrun == nil {
					continue
				}

				if err := applyEvalsProperty(savedTestrun, element); err != nil {
					warnings = append(warnings, Warning{
						Message:  fmt.Sprintf("Error parsing `property` element: %s", err),
						Location: decoder.InputOffset(),
					})
				}
			case "testsuite":
				sawJUnitElement = true

				name := attrValue(element, "name")
				if name != nil && len(*name) > v1.MaxFieldLength {
					return nil, errors.NewInputError("Error parsing JUnit XML: testsuite name exceeds %d characters", v1.MaxFieldLength)
				}

				testsuiteNames = append(testsuiteNames, name)
				testsuiteTimes = append(testsuiteTimes, attrValue(element, "time"))
			case "testsuites":
				sawJUnitElement = true

				if name := attrValue(element, "name"); name != nil {
					framework = v1.CheckTestsuitesName(*name)
				}
			}
		case xml.EndElement:
			switch element.Name.Local {
			case "testcase":
				if savedTestrun == nil && !savedSkipped {
					return nil, errors.NewInputError("Met testcase closing tag without first meeting testcase opening tag")
				}
				if savedTestrun != nil {
					testruns = append(testruns, *savedTestrun)
				}
				savedTestrun = nil
				savedSkipped = false
			case "failure":
				inFailure = false
			case "error":
				inError = false
			case "testsuite":
				if len(testsuiteNames) > 0 {
					testsuiteNames = testsuiteNames[:len(testsuiteNames)-1]
					testsuiteTimes = testsuiteTimes[:len(testsuiteTimes)-1]
				}
			}
		case xml.CharData:
			if !inFailure && !inError {
				continue
			}
			if savedTestrun == nil {
				continue
			}

			// The JUnit spec suggests the failure element's text content hold a stack trace; when
			// present, it wins over the shorter `message` attribute.
			text := strings.TrimSpace(string(element))
			if text != "" {
				savedTestrun.FailureMessage = &text
			}
		}
	}

	if !sawJUnitElement {
		return nil, errors.NewInputError("The XML document does not appear to contain JUnit test results")
	}

	parsingInfo := v1.NewParsingInfo(framework, testruns, FormatWarnings(input, warnings, file.Name()))
	return &parsingInfo, nil
}

// populateTestrun maps a testcase's attributes onto the canonical Testrun shape. A malformed duration
// becomes a nil duration plus a warning; the framework, once detected, is sticky for the rest of the
// file.
func (p JUnitParser) populateTestrun(
	attrs junitTestcaseAttrs,
	testsuiteNames []*string,
	testsuiteTimes []*string,
	framework **v1.Framework,
	warnings *[]Warning,
	location int64,
) v1.Testrun {
	testsuite := ""
	for i := len(testsuiteNames) - 1; i >= 0; i-- {
		if testsuiteNames[i] != nil {
			testsuite = *testsuiteNames[i]
			break
		}
	}

	rawTime := attrs.time
	if rawTime == nil {
		for i := len(testsuiteTimes) - 1; i >= 0; i-- {
			if testsuiteTimes[i] != nil {
				rawTime = testsuiteTimes[i]
				break
			}
		}
	}

	var duration *float64
	if rawTime != nil && strings.TrimSpace(*rawTime) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(*rawTime), 64)
		switch {
		case err != nil:
			*warnings = append(*warnings, Warning{
				Message:  fmt.Sprintf("Unable to parse %q as a duration for testcase %q", *rawTime, attrs.name),
				Location: location,
			})
		case parsed < 0:
			*warnings = append(*warnings, Warning{
				Message:  fmt.Sprintf("Negative duration %q for testcase %q", *rawTime, attrs.name),
				Location: location,
			})
		default:
			duration = &parsed
		}
	}

	testrun := v1.Testrun{
		Name:      attrs.name,
		Classname: attrs.classname,
		Duration:  duration,
		Outcome:   v1.OutcomePass,
		Testsuite: testsuite,
		Filename:  attrs.file,
	}

	if *framework == nil {
		*framework = testrun.DetectFramework()
	}

	if *framework != nil {
		computedName := v1.ComputeName(testrun.Classname, testrun.Name, **framework, testrun.Filename, p.Network)
		testrun.ComputedName = &computedName
	}

	return testrun
}

func parseJUnitTestcaseAttrs(element xml.StartElement) (junitTestcaseAttrs, error) {
	var attrs junitTestcaseAttrs
	nameFound := false

	for _, attribute := range element.Attr {
		value := attribute.Value

		switch attribute.Name.Local {
		case "time":
			timeValue := value
			attrs.time = &timeValue
		case "classname":
			if len(value) > v1.MaxFieldLength {
				return attrs, errJUnitAttrTooLong{field: "classname", length: len(value)}
			}
			attrs.classname = value
		case "name":
			if len(value) > v1.MaxFieldLength {
				return attrs, errJUnitAttrTooLong{field: "name", length: len(value)}
			}
			attrs.name = value
			nameFound = true
		case "file":
			if len(value) > v1.MaxFieldLength {
				return attrs, errJUnitAttrTooLong{field: "file", length: len(value)}
			}
			fileValue := value
			attrs.file = &fileValue
		}
	}

	if !nameFound {
		return attrs, errors.NewInputError("Missing name attribute in testcase")
	}

	return attrs, nil
}

// applyEvalsProperty merges a single `<property name="evals..." value="...">` element into the test
// run's properties. The dotted name encodes the position of the value inside the nested properties
// object; a path component named `evaluations` creates a JSON array & subsequent components index
// into it.
//
//	<property name="evals.scores.isUseful.type" value="boolean" />
//
// becomes `{"scores": {"isUseful": {"type": "boolean"}}}`. Property elements whose name does not
// start with `evals` are ignored; malformed evals properties surface as warnings at the call site.
func applyEvalsProperty(testrun *v1.Testrun, element xml.StartElement) error {
	name := attrValue(element, "name")
	if name == nil || !strings.HasPrefix(*name, "evals") {
		return nil
	}

	value := attrValue(element, "value")
	if value == nil {
		return errors.NewInputError("Property must have value attribute")
	}

	nameParts := strings.Split(*name, ".")
	if len(nameParts) < 2 {
		return errors.NewInputError("Property name must have at least 2 parts")
	}

	if testrun.Properties == nil {
		testrun.Properties = make(map[string]any)
	}

	// The leading "evals" part is not represented in the properties object itself.
	_, err := setPropertyPath(testrun.Properties, nameParts[1:], *value)
	return err
}

// setPropertyPath walks `parts` down the nested properties structure, creating intermediate objects
// (or arrays, below an `evaluations` component) as needed, & sets the final part to `value`. It
// returns `node` itself, or the grown copy when `node` is an array that had to be resized.
func setPropertyPath(node any, parts []string, value string) (any, error) {
	if len(parts) == 1 {
		object, ok := node.(map[string]any)
		if !ok {
			return nil, errors.NewInputError("Cannot set value in non-object at final key")
		}

		object[parts[0]] = value
		return object, nil
	}

	part := parts[0]

	switch container := node.(type) {
	case map[string]any:
		child, ok := container[part]
		if !ok {
			if part == "evaluations" {
				child = []any{}
			} else {
				child = map[string]any{}
			}
		}

		child, err := setPropertyPath(child, parts[1:], value)
		if err != nil {
			return nil, err
		}

		container[part] = child
		return container, nil
	case []any:
		index, err := strconv.Atoi(part)
		if err != nil || index < 0 {
			return nil, errors.NewInputError("Invalid array index: %s", part)
		}

		for len(container) <= index {
			container = append(container, map[string]any{})
		}

		child, err := setPropertyPath(container[index], parts[1:], value)
		if err != nil {
			return nil, err
		}

		container[index] = child
		return container, nil
	default:
		return nil, errors.NewInputError("Cannot drill down into non-object/non-array value at part: %s", part)
	}
}

func attrValue(element xml.StartElement, name string) *string {
	for _, attribute := range element.Attr {
		if attribute.Name.Local == name {
			value := attribute.Value
			return &value
		}
	}

	return nil
}
