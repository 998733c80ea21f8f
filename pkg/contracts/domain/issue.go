package domain

import (
	"fmt"
	"strings"
)

// IssueKind classifies a non-fatal data problem found while building a report.
type IssueKind string

const (
	IssueUnresolvedUnitType   IssueKind = "UnresolvedUnitType"
	IssueMissingJoinKey       IssueKind = "MissingJoinKey"
	IssueDivisionByZeroMetric IssueKind = "DivisionByZeroMetric"
	IssueMalformedIdentifier  IssueKind = "MalformedIdentifier"
	IssueUnmatchedStoreOrder  IssueKind = "UnmatchedStoreOrder"
	IssueSplitShipment        IssueKind = "SplitShipment"
	IssueTotalMismatch        IssueKind = "TotalMismatch"
	IssueNegativeQuantity     IssueKind = "NegativeQuantity"
)

// Issue is an annotation attached to an entry or to the summary.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail,omitempty"`
}

func (i Issue) String() string {
	if i.Detail == "" {
		return string(i.Kind)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
}

// JoinIssues renders issues as a single cell value.
func JoinIssues(issues []Issue) string {
	parts := make([]string, 0, len(issues))
	for _, is := range issues {
		parts = append(parts, is.String())
	}
	return strings.Join(parts, "; ")
}
