package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

// SectorLinker mirrors every newly created ORIGINAL node with four SECTOR
// children, one per sector type, each linked to the matching-type sector
// child of the original node's parent. Links are resolved through the
// explicit mirror ids carried on sector nodes; names are only used for
// display. Failures are logged and left for reconciliation, never bubbled
// up to the triggering hierarchy write.
type SectorLinker struct {
	store HierarchyStore
	log   *logrus.Logger
}

func NewSectorLinker(store HierarchyStore, log *logrus.Logger) *SectorLinker {
	return &SectorLinker{store: store, log: log}
}

// OnNodeCreated creates the four sector mirrors for an ORIGINAL node. It
// must run only after the node's own creation transaction has committed.
// Non-original nodes are ignored.
func (l *SectorLinker) OnNodeCreated(ctx context.Context, original tree.Node) {
	if original.TreeKind != tree.KindOriginal {
		return
	}
	// The sector tree is rooted at Region: national-level originals have
	// no mirrors.
	if original.Level.Depth() < tree.KindSector.RootLevel().Depth() {
		return
	}

	topLevel := original.Level == tree.KindSector.RootLevel()
	var parentMirrors map[tree.SectorType]tree.Node
	if !topLevel {
		parentMirrors = l.parentMirrors(ctx, original)
	}

	for _, sectorType := range tree.SectorTypes() {
		mirrorOf := original.ID
		node := tree.Node{
			ID:         uuid.New(),
			TreeKind:   tree.KindSector,
			Level:      original.Level,
			Name:       fmt.Sprintf("%s - %s", original.Name, sectorType.Label()),
			Active:     true,
			SectorType: sectorType,
			MirrorOfID: &mirrorOf,
		}

		if !topLevel {
			parent, ok := parentMirrors[sectorType]
			if !ok {
				// Missing parent sector is a data-quality issue; the node is
				// created unlinked and surfaced by the reconciliation listing.
				recordLinkFailure("parent_sector_missing")
				l.log.WithFields(logrus.Fields{
					"original_id": original.ID,
					"sector_type": sectorType,
				}).Warn("sector linker: no parent sector found, creating unlinked")
			} else {
				parentID := parent.ID
				node.ParentID = &parentID
				node.ParentSectorID = &parentID
			}
		}

		if err := l.store.CreateNode(ctx, node); err != nil {
			recordLinkFailure("create_failed")
			l.log.WithError(err).WithFields(logrus.Fields{
				"original_id": original.ID,
				"sector_type": sectorType,
			}).Error("sector linker: failed to create sector mirror")
		}
	}
}

// ReconcileReport summarizes one reconciliation pass over unlinked sector
// nodes.
type ReconcileReport struct {
	Scanned    int
	Relinked   int
	Unresolved []uuid.UUID
}

// Reconcile walks unlinked sector nodes and retries parent-sector link
// resolution through the mirror ids. Nodes whose parent mirror still does
// not exist are reported, not touched. With apply false the pass is a dry
// run. batchSize bounds the number of nodes examined per pass.
func (l *SectorLinker) Reconcile(ctx context.Context, batchSize int, apply bool) (ReconcileReport, error) {
	report := ReconcileReport{}

	unlinked, err := l.store.ListUnlinkedSectorNodes(ctx)
	if err != nil {
		return report, err
	}
	if batchSize > 0 && len(unlinked) > batchSize {
		unlinked = unlinked[:batchSize]
	}

	for _, node := range unlinked {
		report.Scanned++

		parent, ok := l.resolveParentMirror(ctx, node)
		if !ok {
			report.Unresolved = append(report.Unresolved, node.ID)
			continue
		}

		if apply {
			parentID := parent.ID
			node.ParentID = &parentID
			node.ParentSectorID = &parentID
			if err := l.store.UpdateNode(ctx, node); err != nil {
				recordLinkFailure("reconcile_update_failed")
				l.log.WithError(err).WithField("node_id", node.ID).
					Error("sector linker: failed to relink sector node")
				report.Unresolved = append(report.Unresolved, node.ID)
				continue
			}
		}
		report.Relinked++
	}
	return report, nil
}

// resolveParentMirror finds the sector node the given unlinked node should
// hang under: the mirror of its original's parent with the same sector type.
func (l *SectorLinker) resolveParentMirror(ctx context.Context, node tree.Node) (tree.Node, bool) {
	if node.MirrorOfID == nil {
		return tree.Node{}, false
	}
	original, err := l.store.GetNode(ctx, *node.MirrorOfID)
	if err != nil || original.ParentID == nil {
		return tree.Node{}, false
	}
	mirrors, err := l.store.SectorMirrors(ctx, *original.ParentID)
	if err != nil {
		return tree.Node{}, false
	}
	parent, ok := mirrors[node.SectorType]
	return parent, ok
}

func (l *SectorLinker) parentMirrors(ctx context.Context, original tree.Node) map[tree.SectorType]tree.Node {
	if original.ParentID == nil {
		return nil
	}
	mirrors, err := l.store.SectorMirrors(ctx, *original.ParentID)
	if err != nil {
		recordLinkFailure("parent_lookup_failed")
		l.log.WithError(err).WithField("parent_id", *original.ParentID).
			Warn("sector linker: parent mirror lookup failed")
		return nil
	}
	return mirrors
}
