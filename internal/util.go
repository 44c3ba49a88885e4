package internal

// ReconstructPath rebuilds the path ending at record last by following
// parent indices until a record without parent (index < 0).
func ReconstructPath[NodeType any](
	last int,
	idOf func(record int) NodeType,
	parentOf func(record int) int,
) []NodeType {
	var path []NodeType
	for current := last; current >= 0; current = parentOf(current) {
		path = append(path, idOf(current))
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
