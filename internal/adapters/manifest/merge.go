package manifest

import "encoding/json"

// document is a manifest kept as raw top-level fields so merging works by
// field presence without knowing every field.
type document map[string]json.RawMessage

func (d document) inheritsFrom() string {
	raw, ok := d["inheritsFrom"]
	if !ok {
		return ""
	}
	var id string
	if json.Unmarshal(raw, &id) != nil {
		return ""
	}
	return id
}

func (d document) declaresClient() bool {
	raw, ok := d["downloads"]
	if !ok {
		return false
	}
	var downloads map[string]json.RawMessage
	if json.Unmarshal(raw, &downloads) != nil {
		return false
	}
	client, ok := downloads["client"]
	return ok && string(client) != "null"
}

// merge overlays child on parent. Fields present in child win; libraries
// are concatenated child first without deduplication.
func merge(child, parent document) document {
	out := make(document, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}

	childLibs, hasChild := child["libraries"]
	parentLibs, hasParent := parent["libraries"]
	if hasChild && hasParent {
		var a, b []json.RawMessage
		if json.Unmarshal(childLibs, &a) == nil && json.Unmarshal(parentLibs, &b) == nil {
			if combined, err := json.Marshal(append(a, b...)); err == nil {
				out["libraries"] = combined
			}
		}
	}
	return out
}
