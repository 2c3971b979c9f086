package config

// Merge combines the local and remote raw trees. The override is field-level:
// for a key on both sides, each field present in the remote entry replaces
// the local value and fields absent from remote keep their local values, so
// a remote deployment can patch individual attributes of a locally-defined
// model. Keys present on only one side pass through unchanged. Neither input
// is mutated.
func Merge(local, remote Tree) Tree {
	merged := make(Tree, len(local)+len(remote))
	for key, fields := range local {
		merged[key] = copyFields(fields)
	}
	for key, fields := range remote {
		target, ok := merged[key]
		if !ok {
			merged[key] = copyFields(fields)
			continue
		}
		for field, value := range fields {
			target[field] = value
		}
	}
	return merged
}

func copyFields(fields map[string]any) map[string]any {
	cp := make(map[string]any, len(fields))
	for field, value := range fields {
		cp[field] = value
	}
	return cp
}
