package mtavalidator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"github.com/xeipuuv/gojsonschema"
)

const _rootField = "(root)"

// validateSchema checks a decoded descriptor against schema and places every violation on its YAML line.
func validateSchema(schema *gojsonschema.Schema, d *descriptor) ([]entity.Issue, error) {
	result, err := schema.Validate(gojsonschema.NewGoLoader(d.doc))
	if err != nil {
		return nil, fmt.Errorf("validating schema: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	issues := make([]entity.Issue, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		path := fieldPath(re.Field())
		if re.Type() == "additional_property_not_allowed" {
			if p, ok := re.Details()["property"].(string); ok {
				path = append(path, p)
			}
		}

		msg := re.Description()
		if re.Field() != _rootField {
			msg = fmt.Sprintf("%s: %s", re.Field(), msg)
		}
		issues = append(issues, entity.Issue{
			Severity: _severityError,
			Message:  msg,
			Line:     nodeLine(d.root, path),
		})
	}

	// Schema errors come out of map iteration; sort them so repeated runs report identically.
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Message < issues[j].Message
	})
	return issues, nil
}

func fieldPath(field string) []string {
	if field == "" || field == _rootField {
		return nil
	}
	return strings.Split(field, ".")
}
