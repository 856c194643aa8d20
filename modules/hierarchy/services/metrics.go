package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tanzim-io/tanzim/modules/hierarchy/domain/tree"
)

var (
	hierarchyDerivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Subsystem: "deriver",
		Name:      "derivations_total",
		Help:      "Total number of ancestor chain derivations broken down by tree kind.",
	}, []string{"tree"})

	hierarchyDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Subsystem: "guard",
		Name:      "decisions_total",
		Help:      "Total number of permission decisions broken down by operation and outcome.",
	}, []string{"operation", "outcome"})

	sectorLinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Subsystem: "sector_linker",
		Name:      "link_failures_total",
		Help:      "Total number of sector nodes created without a parent-sector link, by reason.",
	}, []string{"reason"})
)

func recordDerivation(kind tree.TreeKind) {
	hierarchyDerivations.WithLabelValues(kind.String()).Inc()
}

func recordDecision(operation string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	hierarchyDecisions.WithLabelValues(operation, outcome).Inc()
}

func recordLinkFailure(reason string) {
	if reason == "" {
		reason = "other"
	}
	sectorLinkFailures.WithLabelValues(reason).Inc()
}
