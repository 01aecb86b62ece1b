package taxonomy

// FolderKind tags a model folder with the class of content it holds.
type FolderKind string

const (
	FolderMotivation     FolderKind = "motivation"
	FolderStrategy       FolderKind = "strategy"
	FolderBusiness       FolderKind = "business"
	FolderApplication    FolderKind = "application"
	FolderTechnology     FolderKind = "technology"
	FolderImplementation FolderKind = "implementation_migration"
	FolderOther          FolderKind = "other"
	FolderRelations      FolderKind = "relations"
	FolderDiagrams       FolderKind = "diagrams"
)

// folderForLayer places each layer into its home folder. Physical elements
// live alongside technology, composites under "other".
var folderForLayer = map[Layer]FolderKind{
	LayerMotivation:     FolderMotivation,
	LayerStrategy:       FolderStrategy,
	LayerBusiness:       FolderBusiness,
	LayerApplication:    FolderApplication,
	LayerTechnology:     FolderTechnology,
	LayerPhysical:       FolderTechnology,
	LayerImplementation: FolderImplementation,
	LayerComposite:      FolderOther,
}

// FolderForLayer returns the folder kind an element of the given layer
// belongs in.
func FolderForLayer(layer Layer) FolderKind {
	if kind, ok := folderForLayer[layer]; ok {
		return kind
	}
	return FolderOther
}
