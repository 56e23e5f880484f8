package parsing

import (
	"github.com/rwx-research/stevedore-cli/internal/fs"
	v1 "github.com/rwx-research/stevedore-cli/pkg/testrunschema/v1"
)

// Parser turns a single test results file into its normalized form. Parsers are expected to return an
// input error when the file does not belong to them; the orchestrator in `Parse` uses this to probe for
// the correct format.
type Parser interface {
	Parse(file fs.ReadOnlyFile) (*v1.ParsingInfo, error)
}
