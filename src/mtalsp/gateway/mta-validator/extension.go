package mtavalidator

import (
	"fmt"

	"github.com/uber/mta-lsp/src/mtalsp/entity"
	"gopkg.in/yaml.v3"
)

// checkExtension reports extension content that does not match the deployment descriptor it extends.
// Nothing is reported unless both descriptors decoded.
func checkExtension(manifest, ext *descriptor) {
	m, ok := manifest.doc.(map[string]any)
	if !ok {
		return
	}
	e, ok := ext.doc.(map[string]any)
	if !ok {
		return
	}

	id, _ := m["ID"].(string)
	extends, _ := e["extends"].(string)
	if id != "" && extends != "" && id != extends {
		// extends may come from a merge key and then has no node of its own.
		ext.issues = append(ext.issues, entity.Issue{
			Severity: _severityError,
			Message:  fmt.Sprintf("extension descriptor extends %q but the deployment descriptor ID is %q", extends, id),
			Line:     nodeLine(ext.root, []string{"extends"}),
		})
		return
	}

	ext.issues = append(ext.issues, unknownNames(manifest.root, ext.root, "modules", "module")...)
	ext.issues = append(ext.issues, unknownNames(manifest.root, ext.root, "resources", "resource")...)
}

// unknownNames warns about every entry of section in the extension whose name is not declared in the manifest.
func unknownNames(manifestRoot, extRoot *yaml.Node, section, kind string) []entity.Issue {
	declared := map[string]struct{}{}
	for _, name := range sectionNames(manifestRoot, section) {
		declared[name.Value] = struct{}{}
	}

	var issues []entity.Issue
	for _, name := range sectionNames(extRoot, section) {
		if _, ok := declared[name.Value]; ok {
			continue
		}
		issues = append(issues, entity.Issue{
			Severity: _severityWarning,
			Message:  fmt.Sprintf("%s %q is not defined in the deployment descriptor", kind, name.Value),
			Line:     name.Line,
		})
	}
	return issues
}

// sectionNames returns the name value nodes of the entries of a top level sequence such as modules.
func sectionNames(root *yaml.Node, section string) []*yaml.Node {
	_, seq := mappingValue(root, section)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil
	}

	names := make([]*yaml.Node, 0, len(seq.Content))
	for _, item := range seq.Content {
		if _, name := mappingValue(item, "name"); name != nil && name.Kind == yaml.ScalarNode {
			names = append(names, name)
		}
	}
	return names
}
