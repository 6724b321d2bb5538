package stability

import (
	"strings"

	"stabl/internal/typemodel"
)

// Prelude returns a snapshot pre-populated with the standard-library
// declarations the rule tables expect to resolve: primitives, strings,
// collection interfaces and their common implementations. Graph loaders
// layer user declarations on top so that references like
// kotlin.collections.MutableList resolve without every graph document
// re-declaring the standard library.
func Prelude() *typemodel.Snapshot {
	snap := typemodel.NewSnapshot()

	addAll := func(names map[string]bool, kind typemodel.ClassKind, modality typemodel.Modality) {
		for qn := range names {
			snap.AddClass(&typemodel.ClassDecl{
				QualifiedName: qn,
				Kind:          kind,
				Modality:      modality,
			})
		}
	}

	addAll(primitiveTypes, typemodel.KindClass, typemodel.ModalityFinal)
	addAll(stringTypes, typemodel.KindClass, typemodel.ModalityFinal)
	addAll(unitTypes, typemodel.KindClass, typemodel.ModalityFinal)
	addAll(knownStableQualified, typemodel.KindClass, typemodel.ModalityFinal)
	addAll(readonlyCollectionInterfaces, typemodel.KindInterface, typemodel.ModalityOpen)
	addAll(immutableCollectionQualified, typemodel.KindInterface, typemodel.ModalityOpen)

	for qn := range mutableCollections {
		kind := typemodel.KindClass
		if strings.HasPrefix(typemodel.SimpleNameOf(qn), "Mutable") {
			kind = typemodel.KindInterface
		}
		snap.AddClass(&typemodel.ClassDecl{
			QualifiedName: qn,
			Kind:          kind,
			Modality:      typemodel.ModalityOpen,
		})
	}

	return snap
}
